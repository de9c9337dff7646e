package file

import "github.com/santhosh-tekuri/jsonschema/v5"

const questionSetSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "question set",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["question", "op1", "op2", "op3", "op4", "Correct"],
    "properties": {
      "question": {"type": "string", "minLength": 1},
      "op1": {"type": "string"},
      "op2": {"type": "string"},
      "op3": {"type": "string"},
      "op4": {"type": "string"},
      "Correct": {"enum": ["opt1", "opt2", "opt3", "opt4"]}
    }
  }
}`

var questionSetSchema = jsonschema.MustCompileString("question-set.schema.json", questionSetSchemaJSON)
