// Package docs holds the Swagger document served at /swagger/index.html.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "PlaylistImport API Support"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/authorize": {
            "get": {
                "description": "Issues a CSRF state bound to the session and redirects to the Spotify authorization page.",
                "tags": ["auth"],
                "summary": "Start authorization",
                "responses": {
                    "302": {"description": "Found"},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/authorized": {
            "get": {
                "description": "Verifies the returned state, exchanges the authorization code for tokens and binds the Spotify identity to the session. The returned state must be sent in the \"state\" header on import.",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Authorization callback",
                "parameters": [
                    {"type": "string", "description": "CSRF state issued by /authorize", "name": "state", "in": "query", "required": true},
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query"},
                    {"type": "string", "description": "Error reported by the accounts service", "name": "error", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.AuthorizedResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "description": "Returns the health status of the API",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/import": {
            "post": {
                "description": "Resolves every track title with a single-result search, creates a private playlist named \"Imported <playlist_name>\" and attaches the resolved tracks in order. The body is either the JSON playlist document or raw extended M3U text (Content-Type audio/x-mpegurl or text/plain). The response status is the status of the attach call.",
                "consumes": ["application/json", "text/plain"],
                "produces": ["application/json"],
                "tags": ["import"],
                "summary": "Import playlist",
                "parameters": [
                    {"type": "string", "description": "CSRF state returned by /authorized", "name": "state", "in": "header", "required": true},
                    {"type": "string", "description": "Source filename, used as the name of an M3U body without #PLAYLIST", "name": "filename", "in": "query"},
                    {"description": "Playlist to import", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/domain.PlaylistImportRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.PlaylistImportResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/domain.PlaylistImportResult"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/domain.PlaylistImportResult"}}
                }
            }
        },
        "/logout": {
            "post": {
                "tags": ["auth"],
                "summary": "Logout",
                "responses": {
                    "302": {"description": "Found"}
                }
            }
        }
    },
    "definitions": {
        "domain.PlaylistImportRequest": {
            "type": "object",
            "required": ["playlist_tracks"],
            "properties": {
                "playlist_name": {"type": "string"},
                "playlist_tracks": {
                    "type": "array",
                    "minItems": 1,
                    "items": {"$ref": "#/definitions/domain.TrackQuery"}
                }
            }
        },
        "domain.PlaylistImportResult": {
            "type": "object",
            "properties": {
                "msg": {"type": "string"},
                "tracks": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/domain.ResolvedTrack"}
                }
            }
        },
        "domain.ResolvedTrack": {
            "type": "object",
            "properties": {
                "status_code": {"type": "integer"},
                "track_title": {"type": "string"},
                "uri": {"type": "string"}
            }
        },
        "domain.TrackQuery": {
            "type": "object",
            "required": ["track_title"],
            "properties": {
                "track_title": {"type": "string"}
            }
        },
        "http.AuthorizedResponse": {
            "type": "object",
            "properties": {
                "display_name": {"type": "string"},
                "state": {"type": "string"},
                "user_id": {"type": "string"}
            }
        },
        "http.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "message": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "PlaylistImport API",
	Description:      "Imports M3U or JSON playlists into a Spotify account.\nEach track title is resolved with a single-result search; resolved tracks are added to a new private playlist.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
