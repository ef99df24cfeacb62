package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SMS API",
        "description": "School management API covering discipline, leave, hostel, transport, academics and payroll.",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "Authentication and session management"},
        {"name": "Users", "description": "User account administration"},
        {"name": "Discipline", "description": "Disciplinary incidents and student status history"},
        {"name": "Leaves", "description": "Teacher leave requests and approvals"},
        {"name": "Hostel & Transport", "description": "Dormitories, boarders, routes, stops and allocations"},
        {"name": "Academic", "description": "Sessions, grading systems, exam types and examinations"},
        {"name": "Payroll", "description": "Payroll records"},
        {"name": "Reports", "description": "Asynchronous CSV/PDF exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate and obtain token pair",
                "parameters": [
                    {"name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Token pair", "schema": {"$ref": "#/definitions/Envelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Auth"],
                "summary": "Rotate a refresh token",
                "responses": {
                    "200": {"description": "New token pair"},
                    "401": {"description": "Revoked or expired token"}
                }
            }
        },
        "/disciplinary/incidents": {
            "get": {
                "tags": ["Discipline"],
                "summary": "List disciplinary incidents",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "Paginated incidents", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            },
            "post": {
                "tags": ["Discipline"],
                "summary": "Record a disciplinary incident",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Validation failure"}
                }
            }
        },
        "/disciplinary/incidents/prefill": {
            "post": {
                "tags": ["Discipline"],
                "summary": "Prefill incident status fields from an action",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Prefilled form"}
                }
            }
        },
        "/disciplinary/students/{id}/status-history": {
            "get": {
                "tags": ["Discipline"],
                "summary": "Student status history with resolved current status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "History entries and current status"}
                }
            }
        },
        "/leaves": {
            "get": {
                "tags": ["Leaves"],
                "summary": "List leave requests",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paginated leave requests"}
                }
            },
            "post": {
                "tags": ["Leaves"],
                "summary": "Submit a leave request",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/leaves/{id}/status": {
            "patch": {
                "tags": ["Leaves"],
                "summary": "Approve or reject a leave request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Decided"},
                    "400": {"description": "Rejection without a reason"},
                    "409": {"description": "Already decided"}
                }
            }
        },
        "/hostel-transport/allocations": {
            "post": {
                "tags": ["Hostel & Transport"],
                "summary": "Create a hostel or transport allocation",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Ambiguous or unknown allocation kind"}
                }
            }
        },
        "/academic/sessions/{id}/set-current": {
            "patch": {
                "tags": ["Academic"],
                "summary": "Promote a session to current",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Promoted"},
                    "404": {"description": "Unknown session"}
                }
            }
        },
        "/payroll": {
            "get": {
                "tags": ["Payroll"],
                "summary": "List payroll rows",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Paginated payroll rows"}
                }
            }
        },
        "/reports/exports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Queue an export job",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "202": {"description": "Job accepted"}
                }
            }
        },
        "/reports/download": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download an artifact with a signed token",
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File stream"},
                    "401": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"},
                "total_pages": {"type": "integer"}
            }
        },
        "Envelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "message": {"type": "string"},
                "code": {"type": "string"}
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
