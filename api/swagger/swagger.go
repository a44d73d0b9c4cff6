package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "School Reports API",
        "description": "Read-only reporting endpoints over the students/courses/enrollments schema",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Students", "description": "Student roster reports"},
        {"name": "Courses", "description": "Course catalog reports"},
        {"name": "Analytics", "description": "Aggregate reports"},
        {"name": "Exports", "description": "Downloadable report renditions"},
        {"name": "System", "description": "Operational endpoints"}
    ],
    "paths": {
        "/": {
            "get": {
                "tags": ["System"],
                "summary": "API route catalog",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["System"],
                "summary": "Database connectivity probe",
                "responses": {
                    "200": {"description": "Healthy"},
                    "503": {"description": "Database unreachable"}
                }
            }
        },
        "/api/students/grade/{grade}": {
            "get": {
                "tags": ["Students"],
                "summary": "Students of one grade level",
                "parameters": [
                    {"name": "grade", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}
                }
            }
        },
        "/api/students/{studentId}/enrollments": {
            "get": {
                "tags": ["Students"],
                "summary": "One student's enrollments, most recent first",
                "parameters": [
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}
                }
            }
        },
        "/api/students/all-with-enrollments": {
            "get": {
                "tags": ["Students"],
                "summary": "Every student with enrollment count and course list",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}
                }
            }
        },
        "/api/students/in-courses": {
            "get": {
                "tags": ["Students"],
                "summary": "Students enrolled in any of the given courses",
                "parameters": [
                    {"name": "courseIds", "in": "query", "required": true, "type": "string", "description": "Comma-separated course IDs"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}},
                    "400": {"description": "Missing courseIds", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/api/courses/popular/{minEnrollments}": {
            "get": {
                "tags": ["Courses"],
                "summary": "Courses meeting an enrollment threshold",
                "parameters": [
                    {"name": "minEnrollments", "in": "path", "required": true, "type": "number"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}
                }
            }
        },
        "/api/analytics/students-per-grade": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Student counts per grade level",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}
                }
            }
        },
        "/api/analytics/student-performance": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per-student GPA over graded work",
                "parameters": [
                    {"name": "minGPA", "in": "query", "type": "number", "description": "Minimum GPA, default 0"},
                    {"name": "grade", "in": "query", "type": "string", "description": "Grade level filter"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}
                }
            }
        },
        "/api/analytics/course-details/{courseId}": {
            "get": {
                "tags": ["Analytics"],
                "summary": "One course's aggregate profile",
                "parameters": [
                    {"name": "courseId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ObjectEnvelope"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/api/analytics/top-performers": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Credit-weighted GPA leaderboard",
                "parameters": [
                    {"name": "minCourses", "in": "query", "type": "integer", "description": "Minimum distinct courses, default 3"},
                    {"name": "minGPA", "in": "query", "type": "number", "description": "Minimum weighted GPA, default 3.5"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}
                }
            }
        },
        "/api/analytics/departments": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Per-department aggregates",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ListEnvelope"}}
                }
            }
        },
        "/api/analytics/departments/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download department analytics",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "description": "csv or pdf, default csv"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        },
        "/api/analytics/top-performers/export": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the top-performers leaderboard",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "description": "csv or pdf, default csv"},
                    {"name": "minCourses", "in": "query", "type": "integer"},
                    {"name": "minGPA", "in": "query", "type": "number"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unsupported format", "schema": {"$ref": "#/definitions/ErrorEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "ListEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "count": {"type": "integer"},
                "data": {"type": "array", "items": {"type": "object"}},
                "filters": {"type": "object"},
                "criteria": {"type": "object"}
            }
        },
        "ObjectEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {"type": "object"}
            }
        },
        "ErrorEnvelope": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"}
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
