package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "SLP Caseload API",
        "description": "Caseload, session, trial log and progress-report management for a school speech-language pathologist",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Caseload roster, goals and objectives"},
        {"name": "Events", "description": "Calendar events and makeups"},
        {"name": "Sessions", "description": "Session tracking and status"},
        {"name": "Trial Logs", "description": "Trial-level performance data"},
        {"name": "SOAP Notes", "description": "Note generation, storage and export"},
        {"name": "Reports", "description": "Quarterly, monthly and makeup reports"},
        {"name": "Activities", "description": "Therapy activity catalogue"},
        {"name": "System", "description": "Health and runtime status"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["System"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/system/status": {
            "get": {
                "tags": ["System"],
                "summary": "Database counts, recent backups and runtime snapshot",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Dashboard: today's sessions, upcoming and overdue reviews",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List active students",
                "parameters": [
                    {"name": "grade", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student_search": {
            "get": {
                "tags": ["Students"],
                "summary": "Search active students by name",
                "parameters": [
                    {"name": "q", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/add_student": {
            "post": {
                "tags": ["Students"],
                "summary": "Create student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/student/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Student profile with goals and objectives",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/edit_student/{id}": {
            "post": {
                "tags": ["Students"],
                "summary": "Update student, goal and objective descriptions",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/delete_student/{id}": {
            "post": {
                "tags": ["Students"],
                "summary": "Archive a student and everything attached to them",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "next", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "303": {"description": "Redirect to next"}
                }
            }
        },
        "/add_goal/{student_id}": {
            "post": {
                "tags": ["Students"],
                "summary": "Add a goal, optionally with its first objective",
                "parameters": [
                    {"name": "student_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/add_objective/{goal_id}": {
            "post": {
                "tags": ["Students"],
                "summary": "Add an objective to a goal",
                "parameters": [
                    {"name": "goal_id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/events": {
            "get": {
                "tags": ["Events"],
                "summary": "Calendar feed of active events",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/CalendarEvent"}}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create an event; Sessions fan out to one event per student",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEventRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/api/events/{id}/makeup": {
            "post": {
                "tags": ["Events"],
                "summary": "Schedule a makeup for a Makeup Needed session",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/sessions": {
            "get": {
                "tags": ["Sessions"],
                "summary": "List active sessions",
                "parameters": [
                    {"name": "filter_date", "in": "query", "type": "string"},
                    {"name": "filter_student", "in": "query", "type": "integer"},
                    {"name": "filter_status", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/update_session_status/{id}": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Set a session's status",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"},
                    {"name": "next", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "303": {"description": "Redirect to next"}
                }
            }
        },
        "/bulk_sessions": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Create one session per student with a start time",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trial_log": {
            "post": {
                "tags": ["Trial Logs"],
                "summary": "Record trial counts against one or more objectives",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/trial_logs_by_date": {
            "get": {
                "tags": ["Trial Logs"],
                "summary": "Trial logs grouped by student for one day",
                "parameters": [
                    {"name": "date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/soap_note": {
            "post": {
                "tags": ["SOAP Notes"],
                "summary": "Generate a SOAP note and optionally save it",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/soap_notes": {
            "get": {
                "tags": ["SOAP Notes"],
                "summary": "List saved notes",
                "parameters": [
                    {"name": "student_id", "in": "query", "type": "integer"},
                    {"name": "start_date", "in": "query", "type": "string"},
                    {"name": "end_date", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/soap_notes/export": {
            "get": {
                "tags": ["SOAP Notes"],
                "summary": "Redacted CSV export of saved notes",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV attachment"}
                }
            }
        },
        "/quarterly_report": {
            "post": {
                "tags": ["Reports"],
                "summary": "Two-stage quarterly report form (form_stage start or generate)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/quarterly_reports/{id}/pdf": {
            "get": {
                "tags": ["Reports"],
                "summary": "Render a saved quarterly report as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "PDF attachment"}
                }
            }
        },
        "/monthly_sessions_report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Per-student monthly session counts against quota",
                "parameters": [
                    {"name": "month", "in": "query", "type": "integer"},
                    {"name": "year", "in": "query", "type": "integer"},
                    {"name": "sort_by", "in": "query", "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/makeups_by_month": {
            "get": {
                "tags": ["Reports"],
                "summary": "Outstanding makeups per student per school-year month",
                "parameters": [
                    {"name": "school_year_start", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/activities": {
            "get": {
                "tags": ["Activities"],
                "summary": "List activities",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/activities/add": {
            "post": {
                "tags": ["Activities"],
                "summary": "Add an activity",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Duplicate name", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "StudentRequest": {
            "type": "object",
            "properties": {
                "first_name": {"type": "string"},
                "last_name": {"type": "string"},
                "preferred_name": {"type": "string"},
                "pronouns": {"type": "string"},
                "grade": {"type": "string"},
                "monthly_services": {"type": "string"},
                "reevaluation_date": {"type": "string", "format": "date"},
                "annual_review_date": {"type": "string", "format": "date"}
            },
            "required": ["first_name", "last_name"]
        },
        "CreateEventRequest": {
            "type": "object",
            "properties": {
                "event_type": {"type": "string"},
                "date_of_session": {"type": "string", "format": "date"},
                "time_of_start": {"type": "string"},
                "time_of_end": {"type": "string"},
                "status": {"type": "string", "enum": ["Scheduled", "Completed", "Excused Absence", "Makeup Needed"]},
                "plan_notes": {"type": "string"},
                "student_id": {"type": "integer"},
                "student_ids": {"type": "array", "items": {"type": "integer"}},
                "objective_ids": {"type": "array", "items": {"type": "integer"}}
            },
            "required": ["date_of_session", "time_of_start", "time_of_end"]
        },
        "CalendarEvent": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "start": {"type": "string"},
                "end": {"type": "string"},
                "status": {"type": "string"},
                "plan_notes": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
