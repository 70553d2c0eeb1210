// Package docs registra el documento OpenAPI que sirve /swagger.
// El template se mantiene a mano; router_test compara sus paths con las rutas montadas.
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
        "/health": {
            "get": {
                "tags": ["ops"],
                "summary": "Liveness; con Postgres también hace ping",
                "responses": {"200": {"description": "ok"}, "503": {"description": "store down"}}
            }
        },
        "/animals": {
            "post": {
                "tags": ["animals"],
                "summary": "Crea un animal con apariencia y colores",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/animals.createAnimalRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            },
            "put": {
                "tags": ["animals"],
                "summary": "Actualiza un animal; colors presente reemplaza el set completo",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/animals.updateAnimalRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            },
            "options": {
                "tags": ["animals"],
                "summary": "Preflight CORS",
                "responses": {"200": {"description": "ok"}}
            }
        },
        "/animals/available": {
            "get": {
                "tags": ["animals"],
                "summary": "Lista animales disponibles (created_at desc)",
                "produces": ["application/json"],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/animals.Response"}}}}
            }
        },
        "/animals/{animalID}": {
            "get": {
                "tags": ["animals"],
                "summary": "Devuelve un animal con refugio, apariencia y colores",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "animalID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.Response"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["animals"],
                "summary": "Borra un animal (solo el dueño del refugio)",
                "parameters": [{"type": "string", "name": "animalID", "in": "path", "required": true}],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/adoptions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["adoptions"],
                "summary": "Pide una adopción (el animal debe estar available)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/adoptions.createAdoptionRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["adoptions"],
                "summary": "Resuelve una adopción; approved marca el animal como adopted",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/adoptions.updateAdoptionRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/reports": {
            "get": {
                "tags": ["lostfound"],
                "summary": "Lista avisos abiertos de animales perdidos/encontrados",
                "parameters": [
                    {"type": "string", "name": "type", "in": "query", "enum": ["lost", "found"]},
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["lostfound"],
                "summary": "Crea un aviso",
                "responses": {
                    "201": {"description": "Created"},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/animals/{animalID}/photo": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["animals"],
                "summary": "Sube la foto de perfil del animal (multipart, campo file)",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "animalID", "in": "path", "required": true}, {"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/animals.Response"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/shelters": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["shelters"],
                "summary": "Crea un refugio; el usuario autenticado queda como dueño",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/shelters/{shelterID}": {
            "get": {
                "tags": ["shelters"],
                "summary": "Devuelve un refugio",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "shelterID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "tags": ["shelters"],
                "summary": "Actualiza un refugio (solo el dueño)",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "shelterID", "in": "path", "required": true}, {"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/shelters/{shelterID}/photo": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["shelters"],
                "summary": "Sube la foto del refugio (multipart, campo file)",
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "shelterID", "in": "path", "required": true}, {"type": "file", "name": "file", "in": "formData", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/shelters/{shelterID}/animals": {
            "get": {
                "tags": ["animals"],
                "summary": "Lista los animales de un refugio",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "shelterID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/animals.Response"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/shelters/{shelterID}/adoptions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["adoptions"],
                "summary": "Lista las adopciones de un refugio (solo el dueño)",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "shelterID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/adoptions.Response"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/me/shelters": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["shelters"],
                "summary": "Lista los refugios del usuario autenticado",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/me/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["profiles"],
                "summary": "Devuelve el perfil del usuario autenticado",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["profiles"],
                "summary": "Crea o reemplaza el perfil del usuario autenticado",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/me/adoptions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["adoptions"],
                "summary": "Lista las adopciones pedidas por el usuario autenticado",
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/adoptions.Response"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/adoptions/{adoptionID}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["adoptions"],
                "summary": "Devuelve una adopción (adoptante o dueño del refugio)",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "adoptionID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/adoptions.Response"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/reports/{reportID}": {
            "get": {
                "tags": ["lostfound"],
                "summary": "Devuelve un aviso",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "reportID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/reports/{reportID}/resolve": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["lostfound"],
                "summary": "Resuelve un aviso, opcionalmente enlazado a otro",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "reportID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        },
        "/reports/{reportID}/cancel": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["lostfound"],
                "summary": "Cancela un aviso propio",
                "produces": ["application/json"],
                "parameters": [{"type": "string", "name": "reportID", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/apierror.Body"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/apierror.Body"}}
                }
            }
        }
    },
    "definitions": {
        "apierror.Body": {
            "type": "object",
            "properties": {
                "code": {"type": "string", "example": "INSERT_ERROR"},
                "message": {"type": "string"},
                "details": {}
            }
        },
        "animals.appearanceRequest": {
            "type": "object",
            "properties": {
                "fur_type_id": {"type": "integer"},
                "pattern_id": {"type": "integer"},
                "colors": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "animals.createAnimalRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "species_id": {"type": "integer"},
                "breed_id": {"type": "integer"},
                "gender": {"type": "string", "enum": ["Macho", "Fêmea", "Indefinido"]},
                "size": {"type": "string"},
                "birth_date": {"type": "string", "example": "2024-03-01"},
                "shelter_id": {"type": "string"},
                "appearance": {"$ref": "#/definitions/animals.appearanceRequest"}
            }
        },
        "animals.updateAnimalRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "status": {"type": "string"},
                "gender": {"type": "string"},
                "birth_date": {"type": "string"},
                "appearance": {"$ref": "#/definitions/animals.appearanceRequest"}
            }
        },
        "animals.Response": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "status": {"type": "string"},
                "shelter_id": {"type": "string"},
                "shelter": {"type": "object"},
                "appearance": {"type": "object"}
            }
        },
        "adoptions.createAdoptionRequest": {
            "type": "object",
            "properties": {
                "animal_id": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "adoptions.updateAdoptionRequest": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string", "enum": ["pending", "approved", "rejected", "cancelled"]},
                "message": {"type": "string"}
            }
        },
        "adoptions.Response": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "status": {"type": "string"},
                "animal": {"type": "object"},
                "adopter": {"type": "object"},
                "shelter": {"type": "object"}
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
	Title:            "kaniu API",
	Description:      "Marketplace de adopción: refugios, animales, adopciones y avisos de perdidos/encontrados.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
