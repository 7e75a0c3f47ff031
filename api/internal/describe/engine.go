package describe

import (
	"context"
	"fmt"
)

// Engine is a vision-language model capable of structured output.
type Engine interface {
	Name() string
	GetModel() string
	Describe(ctx context.Context, in Request, kind Kind) (Result, error)
}

// Cache stores rendered descriptions. A miss is reported as ok=false with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (text string, ok bool, err error)
	Put(ctx context.Context, key, text string) error
}

// Engines holds the configured providers; only the selected one is used per process.
type Engines struct {
	Azure  Engine
	Gemini Engine
}

func (e *Engines) GetEngine(name string) (Engine, error) {
	var eng Engine
	switch name {
	case "azure", "openai", "gpt":
		eng = e.Azure
	case "gemini":
		eng = e.Gemini
	default:
		return nil, fmt.Errorf("unknown llm provider %q; use 'azure' or 'gemini'", name)
	}
	if eng == nil {
		return nil, fmt.Errorf("llm provider %q is not configured", name)
	}
	return eng, nil
}
