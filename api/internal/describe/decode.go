package describe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"descrivi-bot/api/internal/util"
)

// Discriminator values of the auto-detecting wrapper.
const (
	TipoImmagine = "immagine"
	TipoEvento   = "evento"
)

var ErrSchemaViolation = errors.New("model output does not match schema")

// Decode parses the model's JSON output for the given kind.
func Decode(kind Kind, out string) (Result, error) {
	raw := []byte(util.StripCodeFences(out))
	if len(raw) == 0 {
		return Result{}, fmt.Errorf("%w: empty output", ErrSchemaViolation)
	}

	switch kind {
	case KindGeneric:
		var g GenericDescription
		if err := decodeStrict(raw, &g); err != nil {
			return Result{}, err
		}
		if err := validateGeneric(&g); err != nil {
			return Result{}, err
		}
		return GenericResult(kind, g), nil

	case KindEvent:
		var e EventDescription
		if err := decodeStrict(raw, &e); err != nil {
			return Result{}, err
		}
		if err := validateEvent(&e); err != nil {
			return Result{}, err
		}
		return EventResult(kind, e), nil

	case KindFinal:
		return decodeFinal(raw)

	default:
		return Result{}, fmt.Errorf("%w: unknown kind %d", ErrSchemaViolation, kind)
	}
}

func decodeFinal(raw []byte) (Result, error) {
	var env struct {
		Descrizione json.RawMessage `json:"descrizione"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if len(env.Descrizione) == 0 || string(env.Descrizione) == "null" {
		return Result{Kind: KindFinal, Variant: VariantNone}, nil
	}

	var tag struct {
		Tipo string `json:"tipo"`
	}
	if err := json.Unmarshal(env.Descrizione, &tag); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}

	switch strings.ToLower(strings.TrimSpace(tag.Tipo)) {
	case TipoEvento:
		var e EventDescription
		if err := json.Unmarshal(env.Descrizione, &e); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
		}
		if err := validateEvent(&e); err != nil {
			return Result{}, err
		}
		return EventResult(KindFinal, e), nil
	case TipoImmagine:
		var g GenericDescription
		if err := json.Unmarshal(env.Descrizione, &g); err != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrSchemaViolation, err)
		}
		if err := validateGeneric(&g); err != nil {
			return Result{}, err
		}
		return GenericResult(KindFinal, g), nil
	default:
		return Result{Kind: KindFinal, Variant: VariantNone}, nil
	}
}

func decodeStrict(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	return nil
}

func validateGeneric(g *GenericDescription) error {
	g.Descrizione = strings.TrimSpace(g.Descrizione)
	if g.Descrizione == "" {
		return fmt.Errorf("%w: descrizione is required", ErrSchemaViolation)
	}
	return nil
}

func validateEvent(e *EventDescription) error {
	e.normalize()
	if e.NomeEvento == "" {
		return fmt.Errorf("%w: nome_evento is required", ErrSchemaViolation)
	}
	return nil
}
