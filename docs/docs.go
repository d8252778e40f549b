// Package docs is generated by swaggo/swag from the handler annotations.
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
    "paths": {
        "/health": {
            "get": {"tags": ["health"], "summary": "Readiness probe", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.errorPayload"}}}}
        },
        "/healthz": {
            "get": {"tags": ["health"], "summary": "Liveness probe", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/documents": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["documents"], "summary": "List documents", "produces": ["application/json"],
                "parameters": [
                    {"type": "integer", "description": "page size (max 100)", "name": "limit", "in": "query"},
                    {"type": "integer", "description": "offset", "name": "offset", "in": "query"},
                    {"type": "string", "description": "comma separated statuses", "name": "status", "in": "query"},
                    {"type": "string", "description": "comma separated type codes", "name": "type", "in": "query"},
                    {"type": "string", "description": "folder", "name": "folder_id", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.DocumentListResult"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}, "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/handler.errorPayload"}}}},
            "post": {"security": [{"TenantHeader": []}], "tags": ["documents"], "summary": "Create a document", "consumes": ["application/json", "multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"description": "document fields", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/service.CreateDocumentInput"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Document"}}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorPayload"}}, "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorPayload"}}}}
        },
        "/api/v1/documents/search": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["documents"], "summary": "Search documents", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "search terms", "name": "q", "in": "query", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/service.DocumentListResult"}}}}
        },
        "/api/v1/documents/due-for-review": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["documents"], "summary": "Documents due for review", "produces": ["application/json"],
                "parameters": [{"type": "integer", "description": "look-ahead in days (default 30)", "name": "days", "in": "query"}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}}}}}
        },
        "/api/v1/documents/supersede": {
            "post": {"security": [{"TenantHeader": []}], "tags": ["documents"], "summary": "Supersede a document", "consumes": ["application/json"], "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/documents/{id}": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["documents"], "summary": "Get a document", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Document"}}, "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorPayload"}}}}
        },
        "/api/v1/documents/{id}/status": {
            "patch": {"security": [{"TenantHeader": []}], "tags": ["documents"], "summary": "Change document status", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Document"}}, "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorPayload"}}}}
        },
        "/api/v1/documents/{id}/related": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["documents"], "summary": "Related documents", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/documents/{id}/versions": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["versions"], "summary": "List versions", "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"TenantHeader": []}], "tags": ["versions"], "summary": "Upload a new version", "consumes": ["multipart/form-data"], "produces": ["application/json"],
                "parameters": [{"type": "string", "description": "document id", "name": "id", "in": "path", "required": true}, {"type": "file", "description": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/documents/{id}/versions/{number}/download": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["versions"], "summary": "Download a version", "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}, {"type": "integer", "name": "number", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/documents/{id}/links": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["links"], "summary": "List element links", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"TenantHeader": []}], "tags": ["links"], "summary": "Link a document to an element", "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/documents/{id}/links/{element}": {
            "delete": {"security": [{"TenantHeader": []}], "tags": ["links"], "summary": "Unlink a document from an element", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/v1/documents/{id}/distributions": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["distributions"], "summary": "List distributions", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"TenantHeader": []}], "tags": ["distributions"], "summary": "Distribute a document", "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/documents/{id}/remind": {
            "post": {"security": [{"TenantHeader": []}], "tags": ["distributions"], "summary": "Remind pending recipients", "responses": {"200": {"description": "OK"}, "429": {"description": "Too Many Requests"}}}
        },
        "/api/v1/distributions/{id}/acknowledge": {
            "post": {"security": [{"TenantHeader": []}], "tags": ["distributions"], "summary": "Acknowledge a distribution", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/reviews": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["reviews"], "summary": "Review schedule", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/evidence/summary": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["evidence"], "summary": "Evidence summary", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/evidence/elements/{number}": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["evidence"], "summary": "Element evidence", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/evidence/records": {
            "post": {"security": [{"TenantHeader": []}], "tags": ["evidence"], "summary": "Record evidence", "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/admin/mappings": {
            "get": {"security": [{"TenantHeader": []}], "tags": ["admin"], "summary": "List evidence mappings", "responses": {"200": {"description": "OK"}}},
            "post": {"security": [{"TenantHeader": []}], "tags": ["admin"], "summary": "Create an evidence mapping", "responses": {"201": {"description": "Created"}}}
        },
        "/api/v1/admin/mappings/{id}": {
            "patch": {"security": [{"TenantHeader": []}], "tags": ["admin"], "summary": "Update an evidence mapping", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/admin/sync": {
            "post": {"security": [{"TenantHeader": []}], "tags": ["admin"], "summary": "Sync evidence", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}
        },
        "/api/v1/admin/reindex": {
            "post": {"security": [{"TenantHeader": []}], "tags": ["admin"], "summary": "Reindex documents", "responses": {"200": {"description": "OK"}, "429": {"description": "Too Many Requests"}}}
        }
    },
    "definitions": {
        "handler.errorEnvelope": {
            "type": "object",
            "properties": {"code": {"type": "string"}, "field": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorPayload": {
            "type": "object",
            "properties": {"error": {"$ref": "#/definitions/handler.errorEnvelope"}, "request_id": {"type": "string"}}
        },
        "model.Document": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "tenant_id": {"type": "string"},
                "control_number": {"type": "string"},
                "title": {"type": "string"},
                "document_type_code": {"type": "string"},
                "status": {"type": "string", "enum": ["draft", "active", "approved", "under_review", "archived", "obsolete"]},
                "origin": {"type": "string", "enum": ["manual", "converted"]},
                "current_version": {"type": "integer"},
                "elements": {"type": "array", "items": {"type": "integer"}},
                "tags": {"type": "array", "items": {"type": "string"}},
                "keywords": {"type": "array", "items": {"type": "string"}},
                "next_review_date": {"type": "string"},
                "related_document_ids": {"type": "array", "items": {"type": "string"}},
                "view_count": {"type": "integer"},
                "created_at": {"type": "string"},
                "updated_at": {"type": "string"}
            }
        },
        "service.CreateDocumentInput": {
            "type": "object",
            "properties": {
                "control_number": {"type": "string"},
                "title": {"type": "string"},
                "document_type_code": {"type": "string"},
                "origin": {"type": "string"},
                "folder_id": {"type": "string"},
                "elements": {"type": "array", "items": {"type": "integer"}},
                "tags": {"type": "array", "items": {"type": "string"}},
                "keywords": {"type": "array", "items": {"type": "string"}},
                "effective_date": {"type": "string"},
                "expiry_date": {"type": "string"},
                "next_review_date": {"type": "string"},
                "related_document_ids": {"type": "array", "items": {"type": "string"}}
            }
        },
        "service.DocumentListResult": {
            "type": "object",
            "properties": {
                "data": {"type": "array", "items": {"$ref": "#/definitions/model.Document"}},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"},
                "total": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "TenantHeader": {"type": "apiKey", "name": "X-Tenant-ID", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Compliance Evidence Engine API",
	Description:      "",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
