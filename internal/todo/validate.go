package todo

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var taskListSchema string

const taskListSchemaURL = "tasks.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // dotted path to the error location, e.g. [2].title
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
}

// Err joins all errors, or returns nil when the result is valid.
func (r *ValidationResult) Err() error {
	if r == nil || r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

func (r *ValidationResult) add(err error) {
	r.Valid = false
	r.Errors = append(r.Errors, err)
}

func newResult() *ValidationResult {
	return &ValidationResult{Valid: true, Errors: make([]error, 0)}
}

// ValidateJSON checks a serialized task list against the task list
// schema and, when the shape is correct, the structural rules.
func ValidateJSON(data []byte) *ValidationResult {
	result := newResult()

	schema, err := taskSchema()
	if err != nil {
		result.add(fmt.Errorf("compile task schema: %w", err))
		return result
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.add(fmt.Errorf("parse task list: %w", err))
		return result
	}

	if err := schema.Validate(doc); err != nil {
		appendSchemaErrors(result, err)
		return result
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		result.add(fmt.Errorf("parse task list: %w", err))
		return result
	}
	validateStructure(tasks, result)
	return result
}

// ValidateTasks applies the structural rules to an in-memory list.
func ValidateTasks(tasks []Task) *ValidationResult {
	result := newResult()
	validateStructure(tasks, result)
	return result
}

func validateStructure(tasks []Task, result *ValidationResult) {
	seen := make(map[string]int, len(tasks))
	for i, task := range tasks {
		path := fmt.Sprintf("[%d]", i)
		if task.ID == "" {
			result.add(&ValidationError{Path: path + ".id", Err: fmt.Errorf("missing required field")})
			continue
		}
		if first, ok := seen[task.ID]; ok {
			result.add(&ValidationError{
				Path: path + ".id",
				Err:  fmt.Errorf("duplicate id %q (first at [%d])", task.ID, first),
			})
			continue
		}
		seen[task.ID] = i
	}
}

func taskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(taskListSchemaURL, strings.NewReader(taskListSchema)); err != nil {
			schemaErr = err
			return
		}
		compiledSchema, schemaErr = compiler.Compile(taskListSchemaURL)
	})
	return compiledSchema, schemaErr
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.add(err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.add(&ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath turns "/2/title" into "[2].title".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	path := ""
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			path += fmt.Sprintf("[%d]", idx)
			continue
		}
		if path == "" {
			path = part
		} else {
			path += "." + part
		}
	}
	return path
}
