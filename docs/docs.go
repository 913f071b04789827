// Package docs registers the OpenAPI description served under /docs.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/track/page-view": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Record a page view",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.PageViewRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/track/section-view": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Record a section view",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.SectionViewRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/track/interaction": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Record a user interaction",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.InteractionRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/track/custom": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Record a custom event",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.CustomEventRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/track/scroll": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Report a scroll position",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.ScrollRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/track/visibility": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Report a visibility change",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.VisibilityRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/track/error": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Report an uncaught error",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.ErrorRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/track/rejection": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Report an unhandled rejection",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.RejectionRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/track/load": {
            "post": {
                "tags": ["Tracking"],
                "summary": "Report load completion",
                "parameters": [{"in": "body", "name": "request", "schema": {"$ref": "#/definitions/fiber.LoadRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}}
            }
        },
        "/consent": {
            "get": {
                "tags": ["Consent"],
                "summary": "Read the analytics consent state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.ConsentResponse"}}}
            },
            "put": {
                "tags": ["Consent"],
                "summary": "Enable or disable analytics",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/fiber.ConsentRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.ConsentResponse"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/fiber.ErrorResponse"}}}
            }
        },
        "/consent/data": {
            "delete": {
                "tags": ["Consent"],
                "summary": "Delete collected analytics data",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/fiber.StatusResponse"}}}
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Admin login",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/auth.LoginRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.LoginResponse"}}, "401": {"description": "Unauthorized"}}
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Auth"],
                "summary": "Admin logout",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}}
            }
        },
        "/dashboard/summary": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Summary"}}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/dashboard/export": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Download the local event log",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        },
        "/dashboard/events": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Dashboard"],
                "summary": "Delete the local event log",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}}
            }
        }
    },
    "definitions": {
        "fiber.PageViewRequest": {"type": "object", "properties": {"url": {"type": "string"}, "referrer": {"type": "string"}, "viewport": {"type": "object", "properties": {"width": {"type": "integer"}, "height": {"type": "integer"}}}}},
        "fiber.SectionViewRequest": {"type": "object", "properties": {"sectionId": {"type": "string", "example": "projects"}}},
        "fiber.InteractionRequest": {"type": "object", "properties": {"element": {"type": "string"}, "action": {"type": "string"}, "data": {"type": "object"}}},
        "fiber.CustomEventRequest": {"type": "object", "properties": {"name": {"type": "string"}, "data": {"type": "object"}}},
        "fiber.ScrollRequest": {"type": "object", "properties": {"scrollY": {"type": "number"}, "documentHeight": {"type": "number"}, "viewportHeight": {"type": "number"}}},
        "fiber.VisibilityRequest": {"type": "object", "properties": {"hidden": {"type": "boolean"}, "online": {"type": "boolean"}}},
        "fiber.ErrorRequest": {"type": "object", "properties": {"message": {"type": "string"}, "filename": {"type": "string"}, "lineno": {"type": "integer"}, "colno": {"type": "integer"}, "stack": {"type": "string"}}},
        "fiber.RejectionRequest": {"type": "object", "properties": {"reason": {}}},
        "fiber.LoadRequest": {"type": "object", "properties": {"loadTime": {"type": "number"}, "domContentLoaded": {"type": "number"}, "firstPaint": {"type": "number"}, "firstContentfulPaint": {"type": "number"}}},
        "fiber.ConsentRequest": {"type": "object", "properties": {"enabled": {"type": "boolean"}}},
        "fiber.ConsentResponse": {"type": "object", "properties": {"enabled": {"type": "boolean"}}},
        "fiber.StatusResponse": {"type": "object", "properties": {"status": {"type": "string"}}},
        "fiber.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}, "message": {"type": "string"}}},
        "auth.LoginRequest": {"type": "object", "properties": {"username": {"type": "string"}, "password": {"type": "string"}}},
        "auth.LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "expiresAt": {"type": "string"}, "user": {"type": "object"}}},
        "domain.Summary": {
            "type": "object",
            "properties": {
                "totalEvents": {"type": "integer"},
                "uniqueUsers": {"type": "integer"},
                "pageViews": {"type": "integer"},
                "avgSessionDuration": {"type": "number"},
                "topSections": {"type": "array", "items": {"type": "object", "properties": {"section": {"type": "string"}, "count": {"type": "integer"}}}},
                "deviceTypes": {"type": "array", "items": {"type": "object", "properties": {"device": {"type": "string"}, "count": {"type": "integer"}}}},
                "hourlyActivity": {"type": "array", "items": {"type": "object", "properties": {"hour": {"type": "integer"}, "count": {"type": "integer"}}}},
                "performanceMetrics": {"type": "object", "properties": {"avgLoadTime": {"type": "number"}, "avgFirstPaint": {"type": "number"}, "errorRate": {"type": "number"}}}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Portfolio Analytics API",
	Description:      "Collects portfolio visitor analytics and serves the admin dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
