package service

import (
	"context"

	"github.com/dtroode/tourdesk/internal/endpoint"
	"github.com/dtroode/tourdesk/internal/model"
)

// Blog reads published blog posts.
type Blog struct {
	api API
}

func NewBlog(api API) *Blog {
	return &Blog{api: api}
}

func (b *Blog) List(ctx context.Context) (*model.Envelope[[]model.BlogPost], error) {
	return decode[[]model.BlogPost](b.api.Get(ctx, endpoint.BlogPosts))
}

func (b *Blog) Get(ctx context.Context, slug string) (*model.Envelope[model.BlogPost], error) {
	return decode[model.BlogPost](b.api.Get(ctx, endpoint.Build(endpoint.BlogPost, map[string]string{"slug": slug})))
}

// Content reads informational and legal pages.
type Content struct {
	api API
}

func NewContent(api API) *Content {
	return &Content{api: api}
}

func (c *Content) Page(ctx context.Context, slug string) (*model.Envelope[model.ContentPage], error) {
	return decode[model.ContentPage](c.api.Get(ctx, endpoint.Build(endpoint.ContentPage, map[string]string{"slug": slug})))
}
