package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Swarga Employee Portal API",
        "description": "Internal portal: medical checkup tracking, surveys, e-training",
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
        {"name": "MCU", "description": "Medical checkup kiosk and dashboard"},
        {"name": "Surveys", "description": "Employee surveys"},
        {"name": "Training", "description": "E-training quizzes and certificates"},
        {"name": "Authentication", "description": "Admin authentication"}
    ],
    "paths": {
        "/mcu/checkpoints": {
            "get": {
                "tags": ["MCU"],
                "summary": "List active checkpoints",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mcu/scan": {
            "post": {
                "tags": ["MCU"],
                "summary": "Record a checkpoint scan",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RecordScanRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Unknown checkpoint code", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mcu/status": {
            "get": {
                "tags": ["MCU"],
                "summary": "Per-checkpoint progress for one participant",
                "parameters": [
                    {"name": "nik", "in": "query", "required": true, "type": "string"},
                    {"name": "year", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/mcu/live": {
            "get": {
                "tags": ["MCU"],
                "summary": "Live dashboard of checkup sessions",
                "parameters": [
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "status", "in": "query", "type": "string", "enum": ["in_progress", "finished"]},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "entity", "in": "query", "type": "string"},
                    {"name": "facility", "in": "query", "type": "string"},
                    {"name": "department", "in": "query", "type": "string"},
                    {"name": "q", "in": "query", "type": "string"},
                    {"name": "stuckMinutes", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/surveys": {
            "get": {
                "tags": ["Surveys"],
                "summary": "List surveys currently accepting responses",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/surveys/{slug}": {
            "get": {
                "tags": ["Surveys"],
                "summary": "Survey detail with questions",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/surveys/{slug}/responses": {
            "post": {
                "tags": ["Surveys"],
                "summary": "Submit a survey response",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitSurveyRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/etraining/quizzes/{slug}": {
            "get": {
                "tags": ["Training"],
                "summary": "Quiz detail with questions (answer keys omitted)",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/etraining/quizzes/{slug}/attempts": {
            "post": {
                "tags": ["Training"],
                "summary": "Grade a quiz attempt",
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SubmitQuizRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/etraining/certificates/download": {
            "get": {
                "tags": ["Training"],
                "summary": "Download a certificate PDF by signed token",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "token", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"},
                    "400": {"description": "Invalid or expired token", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate admin user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Get current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/surveys/{slug}/summary": {
            "get": {
                "tags": ["Surveys"],
                "summary": "Aggregated answer tallies per question",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/surveys/{slug}/export": {
            "get": {
                "tags": ["Surveys"],
                "summary": "Download all responses as CSV",
                "security": [{"BearerAuth": []}],
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "slug", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        }
    },
    "definitions": {
        "RecordScanRequest": {
            "type": "object",
            "properties": {
                "nik": {"type": "string"},
                "checkpointCode": {"type": "string"},
                "year": {"type": "integer"},
                "deviceId": {"type": "string"}
            },
            "required": ["nik", "checkpointCode"]
        },
        "SubmitSurveyRequest": {
            "type": "object",
            "properties": {
                "respondent_nik": {"type": "string"},
                "answers": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/SubmitAnswerRequest"}
                }
            },
            "required": ["answers"]
        },
        "SubmitAnswerRequest": {
            "type": "object",
            "properties": {
                "question_id": {"type": "string"},
                "choice": {"type": "string"},
                "rating": {"type": "integer"},
                "free_text": {"type": "string"}
            },
            "required": ["question_id"]
        },
        "SubmitQuizRequest": {
            "type": "object",
            "properties": {
                "nik": {"type": "string"},
                "full_name": {"type": "string"},
                "answers": {
                    "type": "object",
                    "additionalProperties": {"type": "integer"}
                }
            },
            "required": ["nik", "full_name", "answers"]
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "Issue": {
            "type": "object",
            "properties": {
                "field": {"type": "string"},
                "rule": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "issues": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/Issue"}
                }
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "message": {"type": "string"},
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
