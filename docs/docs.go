// Package docs holds the OpenAPI description served at /swagger.
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
        "/api/v1/health": {
            "get": {
                "tags": [
                    "health"
                ],
                "summary": "Health check",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/search": {
            "get": {
                "tags": [
                    "search"
                ],
                "summary": "Search the video catalog",
                "description": "Search the external catalog for videos and enrich them with engagement statistics",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Search query",
                        "name": "q",
                        "in": "query",
                        "required": true
                    },
                    {
                        "type": "integer",
                        "description": "Maximum number of results, default: 5",
                        "name": "limit",
                        "in": "query"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/models.CatalogItem"
                            }
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/media/download": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "media"
                ],
                "summary": "Download a catalog item",
                "description": "Download the video of a catalog item, derive its thumbnail and probe its duration",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Item to download",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.DownloadRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.DownloadResponse"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/media/publish": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "media"
                ],
                "summary": "Publish downloaded files",
                "description": "Compress a downloaded video and upload the original, preview and thumbnail to object storage",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Local files and item details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.PublishRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.PublishedArtifacts"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/content": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "content"
                ],
                "summary": "Save a content record",
                "description": "Validate and store a content record for a published video",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Content fields",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/models.ContentInput"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/models.ContentRecord"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/pipeline/batch": {
            "post": {
                "security": [
                    {
                        "ApiKeyAuth": []
                    }
                ],
                "tags": [
                    "pipeline"
                ],
                "summary": "Run a batch ingestion",
                "description": "Download, transcode, publish and persist the selected catalog items one after another",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "description": "Selected catalog items",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/handlers.BatchRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.BatchResult"
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "401": {
                        "description": "Unauthorized",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api/v1/pipeline/status": {
            "get": {
                "tags": [
                    "pipeline"
                ],
                "summary": "Get pipeline status",
                "description": "Get the latest human-readable pipeline status",
                "produces": [
                    "application/json"
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/handlers.StatusResponse"
                        }
                    }
                }
            }
        },
        "/api/v1/pipeline/runs/{id}": {
            "get": {
                "tags": [
                    "pipeline"
                ],
                "summary": "Get a batch run",
                "description": "Get a stored batch run with its per-item outcomes",
                "produces": [
                    "application/json"
                ],
                "parameters": [
                    {
                        "type": "string",
                        "description": "Run ID",
                        "name": "id",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.BatchResult"
                        }
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "handlers.DownloadRequest": {
            "type": "object",
            "properties": {
                "itemId": {
                    "type": "string"
                }
            }
        },
        "handlers.DownloadResponse": {
            "type": "object",
            "properties": {
                "videoPath": {
                    "type": "string"
                },
                "thumbnailPath": {
                    "type": "string"
                },
                "duration": {
                    "type": "string"
                },
                "thumbnailSource": {
                    "type": "string"
                }
            }
        },
        "handlers.PublishRequest": {
            "type": "object",
            "properties": {
                "videoPath": {
                    "type": "string"
                },
                "thumbnailPath": {
                    "type": "string"
                },
                "itemDetails": {
                    "$ref": "#/definitions/models.ItemDetails"
                }
            }
        },
        "handlers.BatchRequest": {
            "type": "object",
            "properties": {
                "query": {
                    "type": "string"
                },
                "items": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.CatalogItem"
                    }
                }
            }
        },
        "handlers.StatusResponse": {
            "type": "object",
            "properties": {
                "status": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                }
            }
        },
        "models.Thumbnail": {
            "type": "object",
            "properties": {
                "url": {
                    "type": "string"
                },
                "width": {
                    "type": "integer"
                },
                "height": {
                    "type": "integer"
                }
            }
        },
        "models.CatalogItem": {
            "type": "object",
            "properties": {
                "id": {
                    "type": "object",
                    "properties": {
                        "kind": {
                            "type": "string"
                        },
                        "videoId": {
                            "type": "string"
                        }
                    }
                },
                "snippet": {
                    "type": "object",
                    "properties": {
                        "title": {
                            "type": "string"
                        },
                        "description": {
                            "type": "string"
                        },
                        "publishedAt": {
                            "type": "string"
                        },
                        "channelTitle": {
                            "type": "string"
                        },
                        "thumbnails": {
                            "type": "object",
                            "properties": {
                                "default": {
                                    "$ref": "#/definitions/models.Thumbnail"
                                },
                                "medium": {
                                    "$ref": "#/definitions/models.Thumbnail"
                                },
                                "high": {
                                    "$ref": "#/definitions/models.Thumbnail"
                                }
                            }
                        }
                    }
                },
                "statistics": {
                    "type": "object",
                    "properties": {
                        "viewCount": {
                            "type": "integer"
                        },
                        "likeCount": {
                            "type": "integer"
                        },
                        "commentCount": {
                            "type": "integer"
                        }
                    }
                }
            }
        },
        "models.ItemDetails": {
            "type": "object",
            "properties": {
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "viewCount": {
                    "type": "integer"
                },
                "likeCount": {
                    "type": "integer"
                }
            }
        },
        "models.PublishedArtifacts": {
            "type": "object",
            "properties": {
                "originalVideoUrl": {
                    "type": "string"
                },
                "previewVideoUrl": {
                    "type": "string"
                },
                "thumbnailUrl": {
                    "type": "string"
                },
                "prefix": {
                    "type": "string"
                }
            }
        },
        "models.ContentInput": {
            "type": "object",
            "required": [
                "title",
                "description",
                "thumbnail",
                "preview_video",
                "original_video"
            ],
            "properties": {
                "_id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "thumbnail": {
                    "type": "string"
                },
                "preview_video": {
                    "type": "string"
                },
                "original_video": {
                    "type": "string"
                },
                "language": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "category": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "certification": {
                    "type": "string"
                },
                "views": {
                    "type": "integer"
                },
                "likes": {
                    "type": "integer"
                },
                "duration": {
                    "type": "string"
                }
            }
        },
        "models.ContentRecord": {
            "type": "object",
            "properties": {
                "_id": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "thumbnail": {
                    "type": "string"
                },
                "preview_video": {
                    "type": "string"
                },
                "original_video": {
                    "type": "string"
                },
                "language": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "category": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "certification": {
                    "type": "string"
                },
                "views": {
                    "type": "integer"
                },
                "likes": {
                    "type": "integer"
                },
                "duration": {
                    "type": "string"
                },
                "user": {
                    "type": "string"
                },
                "viewsId": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "likesId": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "status": {
                    "type": "boolean"
                },
                "is_banner_video": {
                    "type": "boolean"
                },
                "is_active_video": {
                    "type": "boolean"
                },
                "created_by_id": {
                    "type": "string"
                },
                "created_by_name": {
                    "type": "string"
                },
                "processedImages": {
                    "type": "object",
                    "properties": {
                        "medium": {
                            "type": "object",
                            "properties": {
                                "caption": {
                                    "type": "string"
                                },
                                "path": {
                                    "type": "string"
                                },
                                "width": {
                                    "type": "integer"
                                },
                                "height": {
                                    "type": "integer"
                                },
                                "type": {
                                    "type": "string"
                                }
                            }
                        },
                        "small": {
                            "type": "object",
                            "properties": {
                                "caption": {
                                    "type": "string"
                                },
                                "path": {
                                    "type": "string"
                                },
                                "width": {
                                    "type": "integer"
                                },
                                "height": {
                                    "type": "integer"
                                },
                                "type": {
                                    "type": "string"
                                }
                            }
                        },
                        "high": {
                            "type": "object",
                            "properties": {
                                "caption": {
                                    "type": "string"
                                },
                                "path": {
                                    "type": "string"
                                },
                                "width": {
                                    "type": "integer"
                                },
                                "height": {
                                    "type": "integer"
                                },
                                "type": {
                                    "type": "string"
                                }
                            }
                        }
                    }
                },
                "createdAt": {
                    "type": "string"
                },
                "updatedAt": {
                    "type": "string"
                },
                "__v": {
                    "type": "integer"
                },
                "followerCount": {
                    "type": "integer"
                },
                "averageRating": {
                    "type": "number"
                },
                "ratings": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "user": {
                                "type": "string"
                            },
                            "value": {
                                "type": "number"
                            }
                        }
                    }
                }
            }
        },
        "models.ItemOutcome": {
            "type": "object",
            "properties": {
                "itemId": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "state": {
                    "type": "string"
                },
                "failedStage": {
                    "type": "string"
                },
                "error": {
                    "type": "string"
                },
                "recordId": {
                    "type": "string"
                },
                "record": {
                    "$ref": "#/definitions/models.ContentRecord"
                }
            }
        },
        "models.BatchResult": {
            "type": "object",
            "properties": {
                "runId": {
                    "type": "string"
                },
                "query": {
                    "type": "string"
                },
                "outcomes": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/models.ItemOutcome"
                    }
                },
                "succeeded": {
                    "type": "integer"
                },
                "failed": {
                    "type": "integer"
                },
                "startedAt": {
                    "type": "string"
                },
                "finishedAt": {
                    "type": "string"
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "description": "API key protecting mutating endpoints",
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Video Ingest API",
	Description:      "Search a video catalog and ingest selected videos into object storage and the content store",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
