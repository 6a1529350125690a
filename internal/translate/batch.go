package translate

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bisub/internal/logging"
	"bisub/internal/services"
)

// Request is one chunk of texts to translate.
type Request struct {
	Texts          []string
	TargetLanguage string
	Tone           string
	// Model overrides the provider's configured model when set.
	Model string
	// PriorContext is the translated text of the segment preceding this chunk.
	PriorContext string
}

// Batch translates chunks through a Provider under a retry Policy.
type Batch struct {
	provider Provider
	policy   Policy
	logger   *slog.Logger
}

// NewBatch wires a provider and retry policy.
func NewBatch(provider Provider, policy Policy, logger *slog.Logger) *Batch {
	return &Batch{
		provider: provider,
		policy:   policy,
		logger:   logging.NewComponentLogger(logger, "translate"),
	}
}

// Provider returns the backend in use.
func (b *Batch) Provider() Provider {
	return b.provider
}

// Translate returns one translation per input text, in input order. Failed
// attempts are logged and retried; only the terminal error is returned.
func (b *Batch) Translate(ctx context.Context, req Request) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}
	if b.provider == nil {
		return nil, services.Wrap(services.ErrConfiguration, "translate", "batch", "no provider configured", nil)
	}
	if strings.TrimSpace(req.TargetLanguage) == "" {
		return nil, services.Wrap(services.ErrValidation, "translate", "batch", "target language required", nil)
	}

	systemPrompt := SystemPrompt(req.TargetLanguage, req.Tone, len(req.Texts))
	userPrompt, err := UserPrompt(req.Texts, req.PriorContext)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "translate", "batch", "", err)
	}

	ctx = services.WithProvider(ctx, b.provider.Name())
	logger := logging.WithContext(ctx, b.logger)

	policy := b.policy
	policy.OnFailure = func(attempt int, err error, next time.Duration) {
		attrs := []logging.Attr{
			logging.Int("attempt", attempt),
			logging.Int("texts", len(req.Texts)),
			logging.String("failure_kind", services.FailureKind(err)),
			logging.Error(err),
		}
		if next > 0 {
			attrs = append(attrs,
				logging.Duration("retry_in", next),
				logging.String(logging.FieldImpact, "chunk will be retried"),
			)
		} else {
			attrs = append(attrs, logging.String(logging.FieldImpact, "chunk left untranslated"))
		}
		logging.WarnWithContext(logger, "translation attempt failed", "translate_attempt_failed", attrs...)
		if b.policy.OnFailure != nil {
			b.policy.OnFailure(attempt, err, next)
		}
	}

	var result []string
	err = policy.Do(ctx, func(attemptCtx context.Context, attempt int) error {
		started := time.Now()
		content, err := b.provider.Complete(attemptCtx, req.Model, systemPrompt, userPrompt)
		if err != nil {
			return err
		}
		translations, err := DecodeTranslations(content, len(req.Texts))
		if err != nil {
			return err
		}
		logger.Debug("translation attempt succeeded",
			logging.Int("attempt", attempt),
			logging.Int("texts", len(req.Texts)),
			logging.Duration("elapsed", time.Since(started)),
		)
		result = translations
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
