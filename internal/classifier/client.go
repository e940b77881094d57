package classifier

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sevigo/goframe/llms"

	"github.com/citypages/sentinel/internal/core"
)

// Retry policy for transient classifier failures: 1 initial attempt plus
// maxRetries, exponential backoff starting at backoffBase and capped at
// backoffCeiling.
const (
	maxRetries     = 3
	backoffCeiling = 8 * time.Second
)

// baseCategories is the built-in prohibited-content set enumerated in the
// system prompt. Site operators can extend it via .sentinel.yml.
var baseCategories = []string{
	"spam",
	"harassment",
	"misinformation",
	"inappropriate content",
	"fraud",
}

// Generator is the slice of goframe's llms.Model the classifier needs.
type Generator interface {
	Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error)
}

// Client screens content through the remote classification model.
//
// Both operations fail open: on exhausted retries, a non-retryable error,
// or an unparsable reply they log the failure and return the permissive
// default instead of surfacing an error. A classifier outage degrades to
// "no screening", it never blocks content creation.
type Client interface {
	Classify(ctx context.Context, content string, itemType core.ItemType) core.Verdict
	ValidateListing(ctx context.Context, b *core.Business) core.ValidationResult
}

type llmClient struct {
	model       Generator
	prompts     *PromptManager
	modelName   string
	policy      *core.SitePolicy
	logger      *slog.Logger
	backoffBase time.Duration
}

// NewClient creates a classifier Client backed by the given model. A nil
// policy is treated as the default (no site-specific additions).
func NewClient(model Generator, prompts *PromptManager, modelName string, policy *core.SitePolicy, logger *slog.Logger) Client {
	if policy == nil {
		policy = core.DefaultSitePolicy()
	}
	return &llmClient{
		model:       model,
		prompts:     prompts,
		modelName:   modelName,
		policy:      policy,
		logger:      logger,
		backoffBase: time.Second,
	}
}

type classifyPromptData struct {
	ContentType        string
	Categories         []string
	CustomInstructions []string
	Content            string
}

// Classify runs one classification call and collapses any failure to the
// safe default verdict.
func (c *llmClient) Classify(ctx context.Context, content string, itemType core.ItemType) core.Verdict {
	verdict, err := c.classify(ctx, content, itemType)
	if err != nil {
		c.logger.Error("classification failed, content passes unscreened",
			"item_type", itemType,
			"error", err,
		)
		return core.SafeVerdict()
	}
	return verdict
}

func (c *llmClient) classify(ctx context.Context, content string, itemType core.ItemType) (core.Verdict, error) {
	data := classifyPromptData{
		ContentType:        string(itemType),
		Categories:         append(append([]string{}, baseCategories...), c.policy.ExtraCategories...),
		CustomInstructions: c.policy.CustomInstructions,
		Content:            content,
	}

	prompt, err := c.prompts.Render(ClassifyPrompt, ModelProvider(c.modelName), data)
	if err != nil {
		return core.Verdict{}, err
	}

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return core.Verdict{}, err
	}
	return parseVerdict(raw)
}

// ValidateListing evaluates a pending business listing for completeness,
// legitimacy, relevance and locality. On classifier failure it fails open
// to a valid result so legitimate businesses are never blocked by an
// outage.
func (c *llmClient) ValidateListing(ctx context.Context, b *core.Business) core.ValidationResult {
	result, err := c.validateListing(ctx, b)
	if err != nil {
		c.logger.Error("listing validation failed, accepting listing unscreened",
			"business", b.Name,
			"error", err,
		)
		return core.SafeValidationResult()
	}
	return result
}

func (c *llmClient) validateListing(ctx context.Context, b *core.Business) (core.ValidationResult, error) {
	prompt, err := c.prompts.Render(ValidateListingPrompt, ModelProvider(c.modelName), b)
	if err != nil {
		return core.ValidationResult{}, err
	}

	raw, err := c.generate(ctx, prompt)
	if err != nil {
		return core.ValidationResult{}, err
	}
	return parseValidation(raw)
}

// generate performs the model call under the retry policy. Only errors
// classified as transient rate-limit/quota conditions are retried; any
// other error aborts immediately.
func (c *llmClient) generate(ctx context.Context, prompt string) (string, error) {
	var out string

	backoff := retry.WithMaxRetries(maxRetries,
		retry.WithCappedDuration(backoffCeiling, retry.NewExponential(c.backoffBase)))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		resp, err := c.model.Call(ctx, prompt)
		if err != nil {
			if retryableClassifierError(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = resp
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// retryableClassifierError reports whether err looks like a transient
// rate-limit or quota condition from the remote endpoint.
func retryableClassifierError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
}
