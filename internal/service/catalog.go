package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dtroode/tourdesk/internal/cache"
	"github.com/dtroode/tourdesk/internal/endpoint"
	"github.com/dtroode/tourdesk/internal/logger"
	"github.com/dtroode/tourdesk/internal/model"
)

var errMissingID = errors.New("item has no id")

// CatalogPaths are the endpoint templates of one collection.
type CatalogPaths struct {
	List   string
	Item   string
	Images string
}

// Catalog is a cached collection of T served by a REST resource.
//
// List serves the cached list while it is valid. Create, Update and Delete
// apply their change to the cache before the call and undo it when the call
// errors or the server reports failure.
type Catalog[T any] struct {
	label    string
	paths    CatalogPaths
	id       func(T) string
	api      API
	items    *cache.Collection[string, T]
	notifier model.Notifier
	logger   *logger.Logger
}

// NewCatalog creates a catalog service. label names one item in notifications.
func NewCatalog[T any](
	label string,
	paths CatalogPaths,
	id func(T) string,
	api API,
	ttl time.Duration,
	notifier model.Notifier,
	logger *logger.Logger,
) *Catalog[T] {
	return &Catalog[T]{
		label:    label,
		paths:    paths,
		id:       id,
		api:      api,
		items:    cache.NewCollection(ttl, id),
		notifier: notifier,
		logger:   logger,
	}
}

func NewTours(api API, ttl time.Duration, notifier model.Notifier, logger *logger.Logger) *Catalog[model.Tour] {
	paths := CatalogPaths{List: endpoint.Tours, Item: endpoint.Tour, Images: endpoint.TourImages}
	return NewCatalog("Tour", paths, func(t model.Tour) string { return t.ID }, api, ttl, notifier, logger)
}

func NewServices(api API, ttl time.Duration, notifier model.Notifier, logger *logger.Logger) *Catalog[model.Service] {
	paths := CatalogPaths{List: endpoint.Services, Item: endpoint.Service, Images: endpoint.ServiceImages}
	return NewCatalog("Service", paths, func(s model.Service) string { return s.ID }, api, ttl, notifier, logger)
}

func NewItineraries(api API, ttl time.Duration, notifier model.Notifier, logger *logger.Logger) *Catalog[model.Itinerary] {
	paths := CatalogPaths{List: endpoint.Itineraries, Item: endpoint.Itinerary, Images: endpoint.ItineraryImages}
	return NewCatalog("Itinerary", paths, func(i model.Itinerary) string { return i.ID }, api, ttl, notifier, logger)
}

// List returns the collection, from the cache unless it expired or force is set.
func (c *Catalog[T]) List(ctx context.Context, force bool) (*model.Envelope[[]T], error) {
	if !force {
		if items, ok := c.items.Items(); ok {
			c.logger.Debug("Catalog service: serving cached list",
				"catalog", c.label,
				"count", len(items))
			return &model.Envelope[[]T]{Success: true, Data: items, Status: http.StatusOK}, nil
		}
	}

	env, err := decode[[]T](c.api.Get(ctx, c.paths.List))
	if err != nil {
		return nil, err
	}
	if env.Success {
		c.items.Replace(env.Data)
		c.logger.Debug("Catalog service: list refreshed",
			"catalog", c.label,
			"count", len(env.Data))
	}
	return env, nil
}

// Get fetches one item and refreshes its cached copy.
func (c *Catalog[T]) Get(ctx context.Context, id string) (*model.Envelope[T], error) {
	raw, err := c.api.Get(ctx, endpoint.ID(c.paths.Item, id))
	if err != nil {
		return nil, err
	}
	env, err := model.DecodeEnvelope[T](raw)
	if err != nil {
		return nil, err
	}
	if env.Success && len(raw.Data) > 0 {
		c.items.Upsert(env.Data)
	}
	return env, nil
}

// Create adds item to the collection. Until the server answers, item sits in
// the cache in its own slot, so concurrent creates without ids do not collide.
func (c *Catalog[T]) Create(ctx context.Context, item T) (*model.Envelope[T], error) {
	undo := c.items.Insert(item)
	call := func() (*model.RawEnvelope, error) {
		return c.api.Post(ctx, c.paths.List, item)
	}
	return c.mutate(ctx, "created", undo, call, func(created T, echoed bool) {
		undo()
		if echoed {
			c.items.Upsert(created)
			return
		}
		// The id of the new item is unknown until the list is fetched again.
		c.items.Invalidate()
	})
}

// Update replaces the item with the id of item.
func (c *Catalog[T]) Update(ctx context.Context, item T) (*model.Envelope[T], error) {
	id := c.id(item)
	if id == "" {
		return nil, errMissingID
	}

	undo := c.items.Upsert(item)
	call := func() (*model.RawEnvelope, error) {
		return c.api.Put(ctx, endpoint.ID(c.paths.Item, id), item)
	}
	return c.mutate(ctx, "updated", undo, call, func(updated T, echoed bool) {
		if echoed {
			// The server copy carries the timestamps the request lacked.
			undo()
			c.items.Upsert(updated)
		}
	})
}

// Delete removes the item with id.
func (c *Catalog[T]) Delete(ctx context.Context, id string) (*model.Envelope[T], error) {
	if id == "" {
		return nil, errMissingID
	}

	undo := c.items.Remove(id)
	call := func() (*model.RawEnvelope, error) {
		return c.api.Delete(ctx, endpoint.ID(c.paths.Item, id))
	}
	return c.mutate(ctx, "deleted", undo, call, nil)
}

// mutate runs call and undoes the optimistic cache change when it fails.
// On success settle, if set, reconciles the cache with the server reply;
// echoed reports whether the reply carried the item.
func (c *Catalog[T]) mutate(
	ctx context.Context,
	verb string,
	undo func(),
	call func() (*model.RawEnvelope, error),
	settle func(item T, echoed bool),
) (*model.Envelope[T], error) {
	raw, err := call()
	if err != nil {
		undo()
		c.logger.Warn("Catalog service: mutation failed, rolled back",
			"catalog", c.label,
			"action", verb,
			"error", err.Error())
		return nil, err
	}

	env, err := model.DecodeEnvelope[T](raw)
	if err != nil {
		undo()
		return nil, fmt.Errorf("failed to decode %s: %w", c.label, err)
	}

	if !env.Success {
		undo()
		c.logger.Info("Catalog service: mutation rejected, rolled back",
			"catalog", c.label,
			"action", verb,
			"status", env.Status)
		return env, nil
	}

	if settle != nil {
		settle(env.Data, len(raw.Data) > 0 && string(raw.Data) != "null")
	}

	notifyInfo(ctx, c.notifier, fmt.Sprintf("%s %s", c.label, verb))
	return env, nil
}

// UploadImage attaches an image to the item with id.
func (c *Catalog[T]) UploadImage(ctx context.Context, id string, file model.File, fields map[string]string) (*model.Envelope[model.UploadedImage], error) {
	if id == "" {
		return nil, errMissingID
	}

	env, err := decode[model.UploadedImage](c.api.Upload(ctx, endpoint.ID(c.paths.Images, id), file, fields))
	if err != nil {
		return nil, err
	}
	if env.Success {
		// The item's image list changed on the server.
		c.items.Invalidate()
		notifyInfo(ctx, c.notifier, "Image uploaded")
	}
	return env, nil
}

// Cached returns the cached item with id, if any.
func (c *Catalog[T]) Cached(id string) (T, bool) {
	return c.items.Get(id)
}

// Invalidate forces the next List to call the server.
func (c *Catalog[T]) Invalidate() {
	c.items.Invalidate()
}
