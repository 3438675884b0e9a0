package normalizer

const petstoreOAS3 = `openapi: 3.0.3
info:
  title: Pet Store
  version: 1.0.0
servers:
  - url: https://api.example.com/v1
tags:
  - name: pets
    description: Pet operations
security:
  - apiKey: []
paths:
  /pets:
    get:
      operationId: listPets
      tags: [pets]
      parameters:
        - $ref: '#/components/parameters/Limit'
      responses:
        '200':
          description: A list of pets
          content:
            application/xml:
              schema:
                type: string
            application/json:
              schema:
                type: array
                items:
                  $ref: '#/components/schemas/Pet'
        default:
          $ref: '#/components/responses/Error'
    post:
      operationId: createPet
      tags: [pets, admin]
      requestBody:
        required: true
        content:
          application/vnd.pet+json:
            schema:
              $ref: '#/components/schemas/NewPet'
      responses:
        '201':
          description: Created
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        schema:
          type: integer
          format: int64
    get:
      operationId: getPet
      security: []
      responses:
        '200':
          description: A pet
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Pet'
components:
  parameters:
    Limit:
      name: limit
      in: query
      schema:
        type: integer
        format: int32
  responses:
    Error:
      description: Unexpected error
      content:
        application/json:
          schema:
            $ref: '#/components/schemas/Error'
  securitySchemes:
    apiKey:
      type: apiKey
      name: X-API-Key
      in: header
  schemas:
    Pet:
      type: object
      required: [id, name]
      properties:
        id:
          type: integer
          format: int64
        name:
          type: string
        tag:
          type: string
          nullable: true
        status:
          type: string
          enum: [available, sold]
    NewPet:
      allOf:
        - $ref: '#/components/schemas/Pet'
    Error:
      type: object
      properties:
        message:
          type: string
`

const legacySwagger2 = `swagger: "2.0"
info:
  title: Legacy
  version: "1.0"
host: api.example.com
basePath: /v2
schemes: [https, http]
consumes: [application/json]
produces: [application/json]
securityDefinitions:
  basicAuth:
    type: basic
parameters:
  PageSize:
    name: pageSize
    in: query
    type: integer
    format: int32
paths:
  /users:
    get:
      operationId: listUsers
      parameters:
        - $ref: '#/parameters/PageSize'
      responses:
        200:
          description: OK
          schema:
            type: array
            items:
              $ref: '#/definitions/User'
    post:
      operationId: createUser
      consumes: [application/xml, application/json]
      parameters:
        - name: body
          in: body
          required: true
          schema:
            $ref: '#/definitions/User'
      responses:
        201:
          description: Created
          schema:
            $ref: '#/definitions/User'
  /users/{id}/avatar:
    post:
      operationId: uploadAvatar
      parameters:
        - name: id
          in: path
          type: string
        - name: file
          in: formData
          type: file
          required: true
        - name: caption
          in: formData
          type: string
      responses:
        204:
          description: Uploaded
  /login:
    post:
      operationId: login
      parameters:
        - name: username
          in: formData
          type: string
          required: true
      responses:
        200:
          description: OK
      security:
        - basicAuth: []
definitions:
  User:
    type: object
    required: [name]
    properties:
      name:
        type: string
      email:
        type: string
        x-nullable: true
`

const brokenPathParams = `openapi: 3.0.0
info:
  title: Broken
  version: "1"
paths:
  /items/{itemId}:
    get:
      parameters:
        - name: id
          in: path
          required: true
          schema:
            type: string
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Missing'
`
