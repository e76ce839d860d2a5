package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "AcadGrid Timetable API",
        "description": "Constraint-based weekly timetable generation for academic semesters",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Timetable generation and filtered views"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Degraded"}
                }
            }
        },
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate the weekly timetable for a semester",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Semester not found"},
                    "409": {"description": "Timetable already exists"},
                    "412": {"description": "Courses with unassigned sections"},
                    "422": {"description": "Placement exhausted"}
                }
            }
        },
        "/timetables/lookup": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Resolve a timetable by stream and semester number",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LookupTimetableRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/timetables/{semesterId}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Full weekly grid with per-slot section maps",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Timetables"],
                "summary": "Delete a semester's timetable, permitting regeneration",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/timetables/{semesterId}/sections/{section}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Weekly grid filtered to one section",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"},
                    {"name": "section", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Unknown section"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/timetables/{semesterId}/me": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Weekly grid filtered to the authenticated teacher",
                "parameters": [
                    {"name": "semesterId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Unauthorized"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "GenerateTimetableRequest": {
            "type": "object",
            "required": ["semesterId"],
            "properties": {
                "semesterId": {"type": "string"}
            }
        },
        "LookupTimetableRequest": {
            "type": "object",
            "required": ["stream", "semesterNum"],
            "properties": {
                "stream": {"type": "string"},
                "semesterNum": {"type": "integer", "minimum": 1}
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
