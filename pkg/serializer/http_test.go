// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package serializer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sbinmalek/sisl/pkg/defaults"
)

func TestHttpReader_Read(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	data, err := NewHttpReader(WithUserAgent("test-agent")).Read(srv.URL)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(data) != "ok" {
		t.Errorf("Read = %q, want %q", data, "ok")
	}
	if gotAgent != "test-agent" {
		t.Errorf("User-Agent = %q, want %q", gotAgent, "test-agent")
	}
}

func TestHttpReader_Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewHttpReader().Read(srv.URL)
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestHttpReader_EmptyURL(t *testing.T) {
	if _, err := NewHttpReader().Read(""); err == nil {
		t.Error("expected error for empty url")
	}
}

func TestHttpReader_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHttpReader().ReadWithContext(ctx, srv.URL); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestHttpReader_TotalTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	r := NewHttpReader(WithTotalTimeout(50 * time.Millisecond))
	if r.Client.Timeout != 50*time.Millisecond {
		t.Errorf("Timeout = %v, want 50ms", r.Client.Timeout)
	}
	if _, err := r.Read(srv.URL); err == nil {
		t.Error("expected timeout error")
	}

	if got := NewHttpReader(WithTotalTimeout(0)).Client.Timeout; got != defaults.HTTPClientTimeout {
		t.Errorf("WithTotalTimeout(0) Timeout = %v, want %v", got, defaults.HTTPClientTimeout)
	}
}
