package prompts

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Vovarama1992/vertex-text-bridge/internal/mlflow"
)

// PromptTextTag holds the template text on an MLflow prompt version.
const PromptTextTag = "mlflow.prompt.text"

type mlflowTag struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type mlflowModelVersion struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Tags    []mlflowTag `json:"tags"`
}

// MLflowRegistry reads prompts from the MLflow prompt registry.
type MLflowRegistry struct {
	client *mlflow.Client
}

func NewMLflowRegistry(client *mlflow.Client) *MLflowRegistry {
	return &MLflowRegistry{client: client}
}

func (r *MLflowRegistry) Load(ctx context.Context, name, alias string) (*Template, error) {
	var resp struct {
		ModelVersion mlflowModelVersion `json:"model_version"`
	}
	err := r.client.Get(ctx, "/registered-models/alias", url.Values{
		"name":  {name},
		"alias": {alias},
	}, &resp)
	if errors.Is(err, mlflow.ErrResourceNotFound) && alias == "latest" {
		return r.loadLatest(ctx, name)
	}
	if errors.Is(err, mlflow.ErrResourceNotFound) {
		return nil, fmt.Errorf("%w: %s@%s", ErrPromptNotFound, name, alias)
	}
	if err != nil {
		return nil, err
	}
	return toTemplate(resp.ModelVersion)
}

func (r *MLflowRegistry) loadLatest(ctx context.Context, name string) (*Template, error) {
	var resp struct {
		ModelVersions []mlflowModelVersion `json:"model_versions"`
	}
	err := r.client.Post(ctx, "/registered-models/get-latest-versions", map[string]string{"name": name}, &resp)
	if errors.Is(err, mlflow.ErrResourceNotFound) {
		return nil, fmt.Errorf("%w: %s@latest", ErrPromptNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	var (
		best    *mlflowModelVersion
		bestNum = -1
	)
	for i := range resp.ModelVersions {
		n, err := strconv.Atoi(resp.ModelVersions[i].Version)
		if err != nil {
			continue
		}
		if n > bestNum {
			best, bestNum = &resp.ModelVersions[i], n
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s@latest", ErrPromptNotFound, name)
	}
	return toTemplate(*best)
}

// Ping checks that the tracking server answers. Used once at startup.
func (r *MLflowRegistry) Ping(ctx context.Context) error {
	return r.client.Get(ctx, "/registered-models/search", url.Values{"max_results": {"1"}}, &struct{}{})
}

func toTemplate(mv mlflowModelVersion) (*Template, error) {
	for _, tag := range mv.Tags {
		if tag.Key == PromptTextTag {
			return &Template{Name: mv.Name, Version: mv.Version, Text: tag.Value}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s/%s has no %s tag", ErrPromptNotFound, mv.Name, mv.Version, PromptTextTag)
}
