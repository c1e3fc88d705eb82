package tools

import (
	"encoding/json"
	"reflect"
	"time"

	"github.com/pkg/errors"
)

// StructuredToolResult represents a tool's execution result with structured metadata
type StructuredToolResult struct {
	ToolName  string       `json:"toolName"`
	Success   bool         `json:"success"`
	Error     string       `json:"error,omitempty"`
	Metadata  ToolMetadata `json:"metadata,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
}

// rawStructuredToolResult is the JSON form of StructuredToolResult
type rawStructuredToolResult struct {
	ToolName     string          `json:"toolName"`
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	MetadataType string          `json:"metadataType,omitempty"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	Timestamp    time.Time       `json:"timestamp"`
}

// MarshalJSON records the metadata type next to the metadata
func (s StructuredToolResult) MarshalJSON() ([]byte, error) {
	raw := rawStructuredToolResult{
		ToolName:  s.ToolName,
		Success:   s.Success,
		Error:     s.Error,
		Timestamp: s.Timestamp,
	}

	if s.Metadata != nil {
		raw.MetadataType = s.Metadata.ToolType()
		metadataBytes, err := json.Marshal(s.Metadata)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal metadata")
		}
		raw.Metadata = metadataBytes
	}

	return json.Marshal(raw)
}

// ToolMetadata is a marker interface for tool-specific metadata structures
type ToolMetadata interface {
	ToolType() string
}

// SkillMetadata describes a loaded skill
type SkillMetadata struct {
	SkillName   string `json:"skillName"`
	Directory   string `json:"directory"`
	ContentPath string `json:"contentPath"`
	Size        int    `json:"size"`
}

func (m SkillMetadata) ToolType() string { return "skill" }

// ExtractMetadata copies metadata into target, which must be a pointer to the
// metadata's concrete type. Both pointer and value metadata are accepted.
func ExtractMetadata(metadata ToolMetadata, target any) bool {
	if metadata == nil {
		return false
	}

	targetValue := reflect.ValueOf(target)
	if targetValue.Kind() != reflect.Ptr || targetValue.IsNil() {
		return false
	}

	targetElem := targetValue.Elem()
	metadataValue := reflect.ValueOf(metadata)
	if metadataValue.Kind() == reflect.Ptr {
		if metadataValue.IsNil() {
			return false
		}
		metadataValue = metadataValue.Elem()
	}

	if targetElem.Type() != metadataValue.Type() {
		return false
	}

	targetElem.Set(metadataValue)
	return true
}
