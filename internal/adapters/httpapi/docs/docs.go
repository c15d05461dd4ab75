// Package docs registers the API's OpenAPI document with swag.
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
		"/dietary-restrictions": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Guests"
				],
				"summary": "Dietary restriction vocabulary",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.DietaryRestrictionsResponse"
						}
					}
				}
			}
		},
		"/invitations/{code}": {
			"get": {
				"produces": [
					"application/json"
				],
				"tags": [
					"Guests"
				],
				"summary": "Look up an invitation",
				"parameters": [
					{
						"type": "string",
						"description": "Invitation code (case-insensitive)",
						"name": "code",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.InvitationResponse"
						}
					},
					"404": {
						"description": "INVITATION_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"429": {
						"description": "RATE_LIMITED",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"503": {
						"description": "INVITATION_LOOKUP_UNAVAILABLE",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			}
		},
		"/invitations/{code}/rsvp": {
			"post": {
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Guests"
				],
				"summary": "Submit a group's RSVP",
				"parameters": [
					{
						"type": "string",
						"description": "Invitation code (case-insensitive)",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"description": "One answer per member",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/httpapi.SubmitRSVPRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.InvitationResponse"
						}
					},
					"404": {
						"description": "INVITATION_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"422": {
						"description": "RSVP_INCOMPLETE or VALIDATION_ERROR",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"429": {
						"description": "RATE_LIMITED",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"500": {
						"description": "PARTIAL_WRITE",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"503": {
						"description": "INVITATION_LOOKUP_UNAVAILABLE",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			}
		},
		"/individuals": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Individuals"
				],
				"summary": "List every guest",
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.ListIndividualsResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			}
		},
		"/individuals/{id}": {
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Individuals"
				],
				"summary": "Edit a guest",
				"parameters": [
					{
						"type": "string",
						"description": "Individual id",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"description": "Fields to change",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/httpapi.UpdateIndividualRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.IndividualResponse"
						}
					},
					"404": {
						"description": "INDIVIDUAL_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"422": {
						"description": "VALIDATION_ERROR",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Individuals"
				],
				"summary": "Delete a guest",
				"parameters": [
					{
						"type": "string",
						"description": "Individual id",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.IndividualResponse"
						}
					},
					"404": {
						"description": "INDIVIDUAL_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			}
		},
		"/groups": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Groups"
				],
				"summary": "Dashboard groups and totals",
				"parameters": [
					{
						"type": "string",
						"description": "Search term",
						"name": "q",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Comma-separated expanded invitation codes",
						"name": "expanded",
						"in": "query"
					},
					{
						"type": "array",
						"items": {
							"enum": [
								"setQuery",
								"clearQuery",
								"toggle",
								"expandAll",
								"collapseAll"
							],
							"type": "string"
						},
						"collectionFormat": "multi",
						"description": "View actions",
						"name": "action",
						"in": "query"
					},
					{
						"type": "string",
						"description": "New search term for setQuery",
						"name": "query",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Invitation code for toggle",
						"name": "code",
						"in": "query"
					},
					{
						"type": "string",
						"description": "Comma-separated codes for expandAll",
						"name": "codes",
						"in": "query"
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.DashboardResponse"
						}
					},
					"422": {
						"description": "VALIDATION_ERROR",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			},
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Groups"
				],
				"summary": "Create an invitation group",
				"parameters": [
					{
						"type": "string",
						"description": "Replay protection key",
						"name": "Idempotency-Key",
						"in": "header"
					},
					{
						"description": "Group name and members",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/httpapi.CreateGroupRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/httpapi.GroupResponse"
						}
					},
					"409": {
						"description": "IDEMPOTENCY_KEY_REUSE",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"422": {
						"description": "VALIDATION_ERROR",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"500": {
						"description": "PARTIAL_WRITE or CODE_SPACE_EXHAUSTED",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			}
		},
		"/groups/{code}": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Groups"
				],
				"summary": "Get an invitation group",
				"parameters": [
					{
						"type": "string",
						"description": "Invitation code",
						"name": "code",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.GroupResponse"
						}
					},
					"404": {
						"description": "INVITATION_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			},
			"patch": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Groups"
				],
				"summary": "Update every member of a group",
				"parameters": [
					{
						"type": "string",
						"description": "Invitation code",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"description": "groupName and/or rsvpStatus",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/httpapi.UpdateGroupRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.GroupChangeResponse"
						}
					},
					"404": {
						"description": "INVITATION_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"422": {
						"description": "VALIDATION_ERROR",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			},
			"delete": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Groups"
				],
				"summary": "Delete an invitation group",
				"parameters": [
					{
						"type": "string",
						"description": "Invitation code",
						"name": "code",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK",
						"schema": {
							"$ref": "#/definitions/httpapi.GroupChangeResponse"
						}
					},
					"404": {
						"description": "INVITATION_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			}
		},
		"/groups/{code}/members": {
			"post": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"consumes": [
					"application/json"
				],
				"produces": [
					"application/json"
				],
				"tags": [
					"Groups"
				],
				"summary": "Add a member to a group",
				"parameters": [
					{
						"type": "string",
						"description": "Invitation code",
						"name": "code",
						"in": "path",
						"required": true
					},
					{
						"description": "New member",
						"name": "request",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/httpapi.NewMemberRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created",
						"schema": {
							"$ref": "#/definitions/httpapi.IndividualResponse"
						}
					},
					"404": {
						"description": "INVITATION_NOT_FOUND",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					},
					"422": {
						"description": "VALIDATION_ERROR",
						"schema": {
							"$ref": "#/definitions/httpapi.ErrorResponse"
						}
					}
				}
			}
		},
		"/export.csv": {
			"get": {
				"security": [
					{
						"BearerAuth": []
					}
				],
				"produces": [
					"text/csv"
				],
				"tags": [
					"Groups"
				],
				"summary": "Export guests as CSV",
				"responses": {
					"200": {
						"description": "CSV with a header row",
						"schema": {
							"type": "string"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"httpapi.ErrorBody": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				},
				"details": {
					"type": "object",
					"additionalProperties": true
				},
				"requestId": {
					"type": "string"
				}
			}
		},
		"httpapi.ErrorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"$ref": "#/definitions/httpapi.ErrorBody"
				}
			}
		},
		"httpapi.Individual": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"invitationCode": {
					"type": "string"
				},
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"groupName": {
					"type": "string"
				},
				"email": {
					"type": "string"
				},
				"rsvpStatus": {
					"type": "string",
					"enum": [
						"Accepted",
						"Declined",
						"Pending",
						"No Response"
					]
				},
				"dietaryRestrictions": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"comments": {
					"type": "string"
				},
				"createdAt": {
					"type": "string",
					"format": "date-time"
				},
				"updatedAt": {
					"type": "string",
					"format": "date-time"
				}
			}
		},
		"httpapi.IndividualResponse": {
			"type": "object",
			"properties": {
				"individual": {
					"$ref": "#/definitions/httpapi.Individual"
				}
			}
		},
		"httpapi.ListIndividualsResponse": {
			"type": "object",
			"properties": {
				"individuals": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/httpapi.Individual"
					}
				}
			}
		},
		"httpapi.UpdateIndividualRequest": {
			"type": "object",
			"properties": {
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"email": {
					"type": "string",
					"format": "email"
				},
				"rsvpStatus": {
					"type": "string"
				},
				"dietaryRestrictions": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"comments": {
					"type": "string"
				}
			}
		},
		"httpapi.NewMemberRequest": {
			"type": "object",
			"properties": {
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"email": {
					"type": "string",
					"format": "email"
				}
			}
		},
		"httpapi.CreateGroupRequest": {
			"type": "object",
			"properties": {
				"groupName": {
					"type": "string"
				},
				"members": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/httpapi.NewMemberRequest"
					}
				}
			}
		},
		"httpapi.UpdateGroupRequest": {
			"type": "object",
			"properties": {
				"groupName": {
					"type": "string"
				},
				"rsvpStatus": {
					"type": "string"
				}
			}
		},
		"httpapi.Group": {
			"type": "object",
			"properties": {
				"invitationCode": {
					"type": "string"
				},
				"groupName": {
					"type": "string"
				},
				"members": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/httpapi.Individual"
					}
				}
			}
		},
		"httpapi.GroupResponse": {
			"type": "object",
			"properties": {
				"group": {
					"$ref": "#/definitions/httpapi.Group"
				}
			}
		},
		"httpapi.GroupChangeResponse": {
			"type": "object",
			"properties": {
				"invitationCode": {
					"type": "string"
				},
				"count": {
					"type": "integer"
				}
			}
		},
		"httpapi.DashboardView": {
			"type": "object",
			"properties": {
				"q": {
					"type": "string"
				},
				"expanded": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"httpapi.StatusTotals": {
			"type": "object",
			"properties": {
				"total": {
					"type": "integer"
				},
				"accepted": {
					"type": "integer"
				},
				"declined": {
					"type": "integer"
				},
				"pending": {
					"type": "integer"
				},
				"noResponse": {
					"type": "integer"
				}
			}
		},
		"httpapi.DashboardGroup": {
			"type": "object",
			"properties": {
				"invitationCode": {
					"type": "string"
				},
				"groupName": {
					"type": "string"
				},
				"expanded": {
					"type": "boolean"
				},
				"total": {
					"type": "integer"
				},
				"accepted": {
					"type": "integer"
				},
				"declined": {
					"type": "integer"
				},
				"pending": {
					"type": "integer"
				},
				"earliestCreatedAt": {
					"type": "string",
					"format": "date-time"
				},
				"latestUpdatedAt": {
					"type": "string",
					"format": "date-time"
				},
				"members": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/httpapi.Individual"
					}
				}
			}
		},
		"httpapi.DashboardResponse": {
			"type": "object",
			"properties": {
				"view": {
					"$ref": "#/definitions/httpapi.DashboardView"
				},
				"totals": {
					"$ref": "#/definitions/httpapi.StatusTotals"
				},
				"groups": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/httpapi.DashboardGroup"
					}
				}
			}
		},
		"httpapi.DietaryRestrictionsResponse": {
			"type": "object",
			"properties": {
				"dietaryRestrictions": {
					"type": "array",
					"items": {
						"type": "string"
					}
				}
			}
		},
		"httpapi.InvitationMember": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"firstName": {
					"type": "string"
				},
				"lastName": {
					"type": "string"
				},
				"attendance": {
					"type": "string",
					"enum": [
						"yes",
						"no"
					]
				},
				"dietaryRestrictions": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"comments": {
					"type": "string"
				}
			}
		},
		"httpapi.Invitation": {
			"type": "object",
			"properties": {
				"invitationCode": {
					"type": "string"
				},
				"groupName": {
					"type": "string"
				},
				"stage": {
					"type": "string",
					"enum": [
						"code_entry",
						"group_response",
						"confirmation"
					]
				},
				"members": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/httpapi.InvitationMember"
					}
				}
			}
		},
		"httpapi.InvitationResponse": {
			"type": "object",
			"properties": {
				"invitation": {
					"$ref": "#/definitions/httpapi.Invitation"
				}
			}
		},
		"httpapi.RSVPAnswer": {
			"type": "object",
			"properties": {
				"individualId": {
					"type": "string"
				},
				"attendance": {
					"type": "string",
					"enum": [
						"yes",
						"no"
					]
				},
				"dietaryRestrictions": {
					"type": "array",
					"items": {
						"type": "string"
					}
				},
				"comments": {
					"type": "string"
				}
			}
		},
		"httpapi.SubmitRSVPRequest": {
			"type": "object",
			"properties": {
				"responses": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/httpapi.RSVPAnswer"
					}
				}
			}
		}
	},
	"securityDefinitions": {
		"BearerAuth": {
			"description": "JWT from the credential service. Format: \"Bearer {token}\".",
			"type": "apiKey",
			"name": "Authorization",
			"in": "header"
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Wedding RSVP API",
	Description:      "Guests look up their invitation code and RSVP for their group. Hosts manage guests from the dashboard.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
