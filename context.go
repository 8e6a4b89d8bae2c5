package grizzly

import "context"

type ctxKey int

const (
	metadataKey ctxKey = 0
)

var (
	// MetadataKeyNamespace is the key for the database namespace - it will return as "default" if not set
	MetadataKeyNamespace = "namespace"
	// MetadataKeyRequestID is the key for the id assigned to the inbound request (optional)
	MetadataKeyRequestID = "requestId"
	// MetadataKeyUserID is the key for the id of the acting user (optional)
	MetadataKeyUserID = "userId"
)

// GetMetadataValue gets a metadata value from the context if it exists
func GetMetadataValue(ctx context.Context, key string) any {
	m, ok := ctx.Value(metadataKey).(*Document)
	if ok {
		val := m.Get(key)
		if val == nil && key == MetadataKeyNamespace {
			return "default"
		}
		return val
	}
	if key == MetadataKeyNamespace {
		return "default"
	}
	return nil
}

// SetMetadataValues sets metadata key value pairs in the context
func SetMetadataValues(ctx context.Context, data map[string]any) context.Context {
	m := ExtractMetadata(ctx)
	_ = m.SetAll(data)
	return context.WithValue(ctx, metadataKey, m)
}

// SetMetadataNamespace sets the metadata namespace
func SetMetadataNamespace(ctx context.Context, namespace string) context.Context {
	m := ExtractMetadata(ctx)
	_ = m.Set(MetadataKeyNamespace, namespace)
	return context.WithValue(ctx, metadataKey, m)
}

// SetMetadataRequestID sets the metadata request id
func SetMetadataRequestID(ctx context.Context, requestID string) context.Context {
	m := ExtractMetadata(ctx)
	_ = m.Set(MetadataKeyRequestID, requestID)
	return context.WithValue(ctx, metadataKey, m)
}

// SetMetadataUserID sets the metadata user id
func SetMetadataUserID(ctx context.Context, userID string) context.Context {
	m := ExtractMetadata(ctx)
	_ = m.Set(MetadataKeyUserID, userID)
	return context.WithValue(ctx, metadataKey, m)
}

// GetMetadata returns the metadata document from the context if it exists
func GetMetadata(ctx context.Context) (*Document, bool) {
	m, ok := ctx.Value(metadataKey).(*Document)
	if !ok {
		return ExtractMetadata(ctx), false
	}
	return m, true
}

// ExtractMetadata extracts metadata from the context and returns it
func ExtractMetadata(ctx context.Context) *Document {
	m, ok := ctx.Value(metadataKey).(*Document)
	if ok {
		return m
	}
	m = NewDocument()
	_ = m.Set(MetadataKeyNamespace, "default")
	return m
}
