// Package profiles holds the Swagger document for the profiles service. It
// mirrors the swag annotations on the handlers in internal/profiles/http and
// is registered with swag at init so http-swagger can serve it.
package profiles

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/profiles"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Protected. Unauthenticated requests are redirected to /login?callbackURL=<original URL>.",
                "produces": ["application/json"],
                "tags": ["Pages"],
                "summary": "Home",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profilesdk.Session"}},
                    "307": {"description": "Redirect to the sign-in page"}
                }
            }
        },
        "/api/auth/callback/credentials": {
            "post": {
                "description": "Verifies the credentials, sets the session_token cookie and returns the session user together with the URL to continue to. callbackURL is only honoured when it points back at this service.",
                "consumes": ["application/json", "application/x-www-form-urlencoded"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign in with email and password",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/profilesdk.SignInRequest"}}
                ],
                "responses": {
                    "200": {"description": "Signed in", "schema": {"$ref": "#/definitions/profilesdk.SignInResponse"}},
                    "400": {"description": "Email or Password is not found, User not found or Incorrect Password", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "500": {"description": "Sign in error: <detail>", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/api/auth/callback/google": {
            "get": {
                "description": "Validates state, exchanges the code, resolves the Google account to a user and sets the session_token cookie. Failures redirect to /login?error=<code>.",
                "tags": ["Auth"],
                "summary": "Google OAuth callback",
                "parameters": [
                    {"type": "string", "description": "Authorization code", "name": "code", "in": "query"},
                    {"type": "string", "description": "State echoed by Google", "name": "state", "in": "query"},
                    {"type": "string", "description": "Set by Google when the user declined", "name": "error", "in": "query"}
                ],
                "responses": {
                    "302": {"description": "Found"}
                }
            }
        },
        "/api/auth/providers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign-in providers",
                "responses": {
                    "200": {"description": "Providers keyed by id", "schema": {"$ref": "#/definitions/profilesdk.ProvidersResponse"}}
                }
            }
        },
        "/api/auth/register": {
            "post": {
                "description": "Creates a user with email and password. The password must be at least 6 characters. The created user is returned without its password hash; no session is started.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Register a local account",
                "parameters": [
                    {"description": "Registration details", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/profilesdk.RegisterRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created user", "schema": {"$ref": "#/definitions/profilesdk.User"}},
                    "400": {"description": "Missing fields, email taken or password too short", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "500": {"description": "Register error: <detail>", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/api/auth/session": {
            "get": {
                "description": "Returns {user, expires} for a valid session token and {} otherwise.",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Current session",
                "responses": {
                    "200": {"description": "Session view, or {} when signed out", "schema": {"$ref": "#/definitions/profilesdk.Session"}}
                }
            }
        },
        "/api/auth/signin/google": {
            "get": {
                "description": "Redirects to the Google consent screen. The random state and the callback URL are kept in a short-lived HttpOnly cookie until Google redirects back.",
                "tags": ["Auth"],
                "summary": "Sign in with Google",
                "parameters": [
                    {"type": "string", "description": "Where to continue after sign-in (same origin only)", "name": "callbackURL", "in": "query"}
                ],
                "responses": {
                    "307": {"description": "Temporary Redirect"}
                }
            }
        },
        "/api/auth/signout": {
            "post": {
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "Where to go next", "schema": {"$ref": "#/definitions/profilesdk.SignOutResponse"}}
                }
            }
        },
        "/api/edit": {
            "post": {
                "security": [{"SessionCookie": []}],
                "description": "Multipart form with a required name and an optional image file. If storing the image fails the current image is kept and the name is still updated.",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["Profile"],
                "summary": "Edit the current user",
                "parameters": [
                    {"type": "string", "description": "Display name", "name": "name", "in": "formData", "required": true},
                    {"type": "file", "description": "PNG, JPEG, GIF or WebP avatar", "name": "file", "in": "formData"}
                ],
                "responses": {
                    "200": {"description": "Updated user", "schema": {"$ref": "#/definitions/profilesdk.User"}},
                    "400": {"description": "Missing session, unknown user, missing name or a bad image", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "429": {"description": "Too many requests", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "500": {"description": "Edit error: <detail>", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/api/user": {
            "get": {
                "security": [{"SessionCookie": []}],
                "description": "Returns the stored user record of the session owner, without the password hash.",
                "produces": ["application/json"],
                "tags": ["Profile"],
                "summary": "Get the current user",
                "responses": {
                    "200": {"description": "Stored user", "schema": {"$ref": "#/definitions/profilesdk.User"}},
                    "307": {"description": "Redirect to the sign-in page"},
                    "400": {"description": "User does not have session, or User not found", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "500": {"description": "Get user error: <detail>", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Liveness probe returning status, uptime and version. Always 200 while the process runs; it never touches the store.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version", "schema": {"$ref": "#/definitions/profilesdk.HealthResponse"}}
                }
            }
        },
        "/login": {
            "get": {
                "description": "Lists the enabled providers and echoes the callbackURL the gate attached, plus any error code from a failed OAuth round trip.",
                "produces": ["application/json"],
                "tags": ["Pages"],
                "summary": "Sign-in entry point",
                "parameters": [
                    {"type": "string", "description": "Originally requested URL", "name": "callbackURL", "in": "query"},
                    {"type": "string", "description": "Error code from a failed sign-in", "name": "error", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profilesdk.PageResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Readiness probe. Acquires the store through the lazy connection (connecting on first use) and pings it. Media reports \"disabled\" when avatar storage is not configured.",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness Check Endpoint",
                "responses": {
                    "200": {"description": "status, uptime, version, checks", "schema": {"$ref": "#/definitions/profilesdk.HealthResponse"}},
                    "503": {"description": "status, uptime, version, checks - service not ready", "schema": {"$ref": "#/definitions/profilesdk.HealthResponse"}}
                }
            }
        },
        "/register": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Pages"],
                "summary": "Registration entry point",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/profilesdk.PageResponse"}}
                }
            }
        }
    },
    "definitions": {
        "httpx.Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "profilesdk.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "media": {"type": "string"}
            }
        },
        "profilesdk.HealthResponse": {
            "type": "object",
            "properties": {
                "checks": {"$ref": "#/definitions/profilesdk.HealthChecks"},
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"}
            }
        },
        "profilesdk.PageResponse": {
            "type": "object",
            "properties": {
                "callbackURL": {"type": "string"},
                "error": {"type": "string"},
                "page": {"type": "string"},
                "providers": {"type": "array", "items": {"$ref": "#/definitions/profilesdk.Provider"}}
            }
        },
        "profilesdk.Provider": {
            "type": "object",
            "properties": {
                "callbackUrl": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "signinUrl": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "profilesdk.ProvidersResponse": {
            "type": "object",
            "additionalProperties": {"$ref": "#/definitions/profilesdk.Provider"}
        },
        "profilesdk.RegisterRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "profilesdk.Session": {
            "type": "object",
            "properties": {
                "expires": {"type": "string"},
                "user": {"$ref": "#/definitions/profilesdk.SessionUser"}
            }
        },
        "profilesdk.SessionUser": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "name": {"type": "string"}
            }
        },
        "profilesdk.SignInRequest": {
            "type": "object",
            "properties": {
                "callbackURL": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "profilesdk.SignInResponse": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "user": {"$ref": "#/definitions/profilesdk.SessionUser"}
            }
        },
        "profilesdk.SignOutResponse": {
            "type": "object",
            "properties": {
                "url": {"type": "string"}
            }
        },
        "profilesdk.User": {
            "type": "object",
            "properties": {
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "name": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "SessionCookie": {
            "description": "HS256 session token set by a successful sign-in.",
            "type": "apiKey",
            "name": "session_token",
            "in": "cookie"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Profiles Service API",
	Description:      "Session-gated user profiles. Every path outside the public prefixes needs a valid session token,\notherwise the request is redirected to /login?callbackURL=<original URL>.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
