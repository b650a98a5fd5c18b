package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Volley Vote API",
        "description": "Weekly volleyball attendance voting with push reminders",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http",
        "https"
    ],
    "securityDefinitions": {
        "AdminPassword": {"type": "apiKey", "in": "header", "name": "X-Admin-Password"}
    },
    "tags": [
        {"name": "Users", "description": "Self-registered roster"},
        {"name": "Votes", "description": "Weekly availability grid"},
        {"name": "Push", "description": "Web push subscriptions"},
        {"name": "Admin", "description": "Operator actions"}
    ],
    "paths": {
        "/users": {
            "get": {
                "tags": ["Users"],
                "summary": "List roster with display names",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Users"],
                "summary": "Register a person",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterPersonRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/votes": {
            "get": {
                "tags": ["Votes"],
                "summary": "List marks for a week",
                "parameters": [
                    {"name": "week", "in": "query", "type": "string", "description": "Monday in YYYY-MM-DD; defaults to the current week"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid week", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/votes/toggle": {
            "post": {
                "tags": ["Votes"],
                "summary": "Toggle availability for the current week",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ToggleVoteRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown person", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/votes/calendar": {
            "get": {
                "tags": ["Votes"],
                "summary": "Download an .ics event for a slot this week",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "day", "in": "query", "type": "string", "required": true},
                    {"name": "time", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Calendar file"}
                }
            }
        },
        "/push/public-key": {
            "get": {
                "tags": ["Push"],
                "summary": "VAPID public key",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/push/subscribe": {
            "post": {
                "tags": ["Push"],
                "summary": "Store a push subscription",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubscribeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown person", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "tags": ["Admin"],
                "summary": "Exchange the admin password for a bearer token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdminLoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/lazy-users": {
            "get": {
                "tags": ["Admin"],
                "summary": "People with no marks this week",
                "security": [{"AdminPassword": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/remind-lazy": {
            "post": {
                "tags": ["Admin"],
                "summary": "Send push reminders",
                "security": [{"AdminPassword": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RemindRequest"}}
                ],
                "responses": {
                    "200": {"description": "Per-recipient outcomes", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Push not configured", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a person with their marks and subscription",
                "security": [{"AdminPassword": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/votes/{id}": {
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete a single mark",
                "security": [{"AdminPassword": []}],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/votes/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export the current week grid",
                "security": [{"AdminPassword": []}],
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        }
    },
    "definitions": {
        "RegisterPersonRequest": {
            "type": "object",
            "required": ["firstName", "lastName"],
            "properties": {
                "firstName": {"type": "string"},
                "lastName": {"type": "string"}
            }
        },
        "ToggleVoteRequest": {
            "type": "object",
            "required": ["userId", "day", "time"],
            "properties": {
                "userId": {"type": "string"},
                "day": {"type": "string", "enum": ["mon", "tue", "wed", "thu", "fri", "sat", "sun"]},
                "time": {"type": "string", "enum": ["18:00", "19:00", "20:00", "21:00"]}
            }
        },
        "SubscribeRequest": {
            "type": "object",
            "required": ["userId", "subscription"],
            "properties": {
                "userId": {"type": "string"},
                "subscription": {
                    "type": "object",
                    "properties": {
                        "endpoint": {"type": "string"},
                        "keys": {
                            "type": "object",
                            "properties": {
                                "p256dh": {"type": "string"},
                                "auth": {"type": "string"}
                            }
                        }
                    }
                }
            }
        },
        "AdminLoginRequest": {
            "type": "object",
            "required": ["password"],
            "properties": {
                "password": {"type": "string"}
            }
        },
        "RemindRequest": {
            "type": "object",
            "required": ["userIds"],
            "properties": {
                "userIds": {"type": "array", "items": {"type": "string"}}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
