package health

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jeanpaul/learnsimply/internal/provider"
)

type Status struct {
	Provider  string
	Model     string
	Reachable bool
	// ModelListed is false when the endpoint answered but the configured
	// model was not in its list.
	ModelListed bool
	Models      []string
	Error       string
	Latency     time.Duration
}

// OK reports whether the provider is reachable and serves the model.
func (s Status) OK() bool { return s.Reachable && s.ModelListed }

// Check lists the provider's models to verify the endpoint, the credential
// and the configured model in one request.
func Check(ctx context.Context, name, model string, lister provider.ModelLister) Status {
	s := Status{Provider: name, Model: model}
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	models, err := lister.Models(ctx)
	s.Latency = time.Since(start)
	if err != nil {
		s.Error = describe(err)
		return s
	}
	s.Reachable = true
	s.Models = models
	if len(models) == 0 {
		// endpoint doesn't list models, assume it serves ours
		s.ModelListed = true
		return s
	}
	for _, m := range models {
		if m == model {
			s.ModelListed = true
			return s
		}
	}
	s.Error = fmt.Sprintf("model %q not found; available: %s", model, strings.Join(models, ", "))
	return s
}

func describe(err error) string {
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 400, 401, 403:
			return "authentication failed: " + apiErr.Message
		}
		return apiErr.Error()
	}
	return err.Error()
}
