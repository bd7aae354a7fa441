// Package service wraps API calls in typed operations per domain and keeps the
// client-side caches of the catalog collections.
package service

import (
	"context"

	"github.com/dtroode/tourdesk/internal/apiclient"
	"github.com/dtroode/tourdesk/internal/model"
)

// API is the REST client the services call. *apiclient.Client implements it.
type API interface {
	Get(ctx context.Context, endpoint string, opts ...apiclient.RequestOption) (*model.RawEnvelope, error)
	Post(ctx context.Context, endpoint string, body any, opts ...apiclient.RequestOption) (*model.RawEnvelope, error)
	Put(ctx context.Context, endpoint string, body any, opts ...apiclient.RequestOption) (*model.RawEnvelope, error)
	Patch(ctx context.Context, endpoint string, body any, opts ...apiclient.RequestOption) (*model.RawEnvelope, error)
	Delete(ctx context.Context, endpoint string, opts ...apiclient.RequestOption) (*model.RawEnvelope, error)
	Upload(ctx context.Context, endpoint string, file model.File, fields map[string]string, opts ...apiclient.RequestOption) (*model.RawEnvelope, error)
}

var _ API = (*apiclient.Client)(nil)

func decode[T any](raw *model.RawEnvelope, err error) (*model.Envelope[T], error) {
	if err != nil {
		return nil, err
	}
	return model.DecodeEnvelope[T](raw)
}

func notifyInfo(ctx context.Context, n model.Notifier, message string) {
	n.Notify(ctx, model.Notification{Level: model.NotificationInfo, Message: message})
}
