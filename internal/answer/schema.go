package answer

// answerSchema constrains the shape of the known answer sections. Unknown
// top-level keys are allowed; numeric ones become Answer.Fields.
const answerSchema = `{
  "type": "object",
  "properties": {
    "text": {"type": "string"},
    "reasoning": {"type": "string"},
    "explanation": {"type": "string"},
    "calculations": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "variable": {"type": "string"},
          "name": {"type": "string"},
          "formula": {"type": "string"},
          "steps": {"type": "array", "items": {"type": "string"}},
          "result": {"type": "number"}
        }
      }
    },
    "results": {
      "type": "object",
      "additionalProperties": {"type": "number"}
    },
    "hypotheses": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "statement": {"type": "string"},
          "reasoning": {"type": "string"},
          "validation_method": {"type": "string"},
          "metric": {"type": "string"}
        }
      }
    },
    "experiment_design": {
      "type": "object",
      "properties": {
        "control_group": {"type": "string"},
        "sample_size": {"type": "integer", "minimum": 0},
        "duration_days": {"type": "integer", "minimum": 0},
        "success_metric": {"type": "string"},
        "variants": {"type": "array", "items": {"type": "string"}}
      }
    },
    "plan": {
      "type": "object",
      "properties": {
        "cac": {"type": "number"},
        "monthly_budget": {"type": "array", "items": {"type": "number"}},
        "allocation": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name", "amount"],
            "properties": {
              "name": {"type": "string"},
              "amount": {"type": "number"}
            }
          }
        },
        "team_size": {"type": "integer", "minimum": 0},
        "hiring": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "month": {"type": "integer"},
              "hires": {"type": "integer", "minimum": 0}
            }
          }
        },
        "monthly_growth": {"type": "array", "items": {"type": "number"}},
        "channels": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["name"],
            "properties": {
              "name": {"type": "string"},
              "budget": {"type": "number"},
              "target_customers": {"type": "number"},
              "cac": {"type": "number"},
              "conversion_rate": {"type": "number"}
            }
          }
        },
        "milestones": {
          "type": "array",
          "items": {
            "type": "object",
            "properties": {
              "name": {"type": "string"},
              "complexity": {"enum": ["low", "medium", "high"]},
              "duration_days": {"type": "number"}
            }
          }
        },
        "monthly_goals": {"type": "array", "items": {"type": "number"}},
        "strategy": {"type": "string"}
      }
    },
    "breakdowns": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["shares"],
        "properties": {
          "name": {"type": "string"},
          "shares": {"type": "array", "items": {"type": "number"}}
        }
      }
    }
  }
}`
