package services

import (
	"context"
	"strings"
	"time"

	"github.com/medcompanion/medcompanion/internal/labels"
	"github.com/medcompanion/medcompanion/internal/models"
)

type LabelFetcher interface {
	Fetch(ctx context.Context, name string) (labels.Label, error)
}

type DrugLabelRepository interface {
	FindByName(name string) (models.DrugLabel, bool, error)
	Upsert(label *models.DrugLabel) error
}

type LabelService struct {
	fetcher LabelFetcher
	cache   DrugLabelRepository
	now     func() time.Time
}

func NewLabelService(fetcher LabelFetcher, cache DrugLabelRepository) *LabelService {
	return &LabelService{
		fetcher: fetcher,
		cache:   cache,
		now:     time.Now,
	}
}

// Explain returns the label explanation for a medication name,
// cache-first unless refresh is requested. Successful lookups overwrite
// the cache entry; failures are never cached, so a retry re-queries.
func (service *LabelService) Explain(ctx context.Context, name string, refresh bool) (models.DrugLabel, error) {
	name = strings.TrimSpace(name)

	if !refresh {
		cached, found, err := service.cache.FindByName(name)
		if err == nil && found {
			return cached, nil
		}
	}

	fetched, err := service.fetcher.Fetch(ctx, name)
	if err != nil {
		return models.DrugLabel{}, err
	}

	label := models.DrugLabel{
		Name:              name,
		GenericName:       fetched.GenericName,
		Class:             fetched.Class,
		WhatItDoes:        fetched.WhatItDoes,
		HowToTake:         fetched.HowToTake,
		CommonSideEffects: fetched.CommonSideEffects,
		Cautions:          fetched.Cautions,
		Interactions:      fetched.Interactions,
		Source:            fetched.Source,
		FetchedAt:         service.now(),
	}
	if err := service.cache.Upsert(&label); err != nil {
		// The lookup succeeded; a cache write failure only costs the
		// next call a re-fetch.
		return label, nil
	}
	return label, nil
}
