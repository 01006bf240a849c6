package config

// configSchemaID is the id the embedded schema is registered under.
const configSchemaID = "https://fmtbot.dev/schemas/config.schema.json"

// configSchema is the JSON Schema describing the structure of .fmtbot.yml.
// It constrains shape and types only; defaulting is handled in Parse.
const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://fmtbot.dev/schemas/config.schema.json",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "formatters": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "required": ["command"],
        "properties": {
          "name": { "type": "string" },
          "command": {
            "type": "array",
            "minItems": 1,
            "items": { "type": "string", "minLength": 1 }
          },
          "dir": { "type": "string" }
        }
      }
    },
    "commit": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "message": { "type": "string", "minLength": 1 },
        "authorName": { "type": "string" },
        "authorEmail": { "type": "string" }
      }
    },
    "push": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": { "type": "boolean" },
        "remote": { "type": "string", "minLength": 1 }
      }
    },
    "status": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "enabled": { "type": "boolean" },
        "context": { "type": "string", "minLength": 1 }
      }
    }
  }
}`
