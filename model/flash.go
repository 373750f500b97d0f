package model

import (
	"net/url"
	"time"
)

// FlashMap holds attributes for the single request that follows a redirect.
type FlashMap struct {
	Attributes          *AttributeMap `json:"attributes"`
	TargetRequestPath   string        `json:"targetRequestPath"`
	TargetRequestParams url.Values    `json:"targetRequestParams,omitempty"`
	ExpiresAt           time.Time     `json:"expiresAt"`
}

func NewFlashMap() *FlashMap {
	return &FlashMap{Attributes: NewAttributeMap()}
}

func (f *FlashMap) Get(key string) (any, bool) {
	return f.Attributes.Get(key)
}

func (f *FlashMap) Put(key string, value any) {
	if f.Attributes == nil {
		f.Attributes = NewAttributeMap()
	}
	f.Attributes.Put(key, value)
}

func (f *FlashMap) StartExpirationPeriod(timeout time.Duration) {
	f.ExpiresAt = time.Now().Add(timeout)
}

func (f *FlashMap) IsExpired(now time.Time) bool {
	return !f.ExpiresAt.IsZero() && now.After(f.ExpiresAt)
}

// Matches reports whether the flash map targets the given request path and query.
func (f *FlashMap) Matches(path string, query url.Values) bool {
	if f.TargetRequestPath != "" && f.TargetRequestPath != path {
		return false
	}
	for name, values := range f.TargetRequestParams {
		actual := query[name]
		for _, v := range values {
			found := false
			for _, a := range actual {
				if a == v {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}
