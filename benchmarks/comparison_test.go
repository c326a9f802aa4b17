// Copyright 2025 The Arbor Authors
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

package benchmarks

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/chi/v5"
	"github.com/labstack/echo/v4"

	"github.com/arbor-http/arbor"
)

// Router Comparison Benchmarks
//
// This file contains comparative benchmarks between arbor and other popular
// Go routers. These benchmarks are isolated in a separate module to avoid
// polluting the main module's dependencies.
//
// To run these benchmarks:
//   cd benchmarks
//   go test -bench=.

// newArborRouter builds the shared three-route table used by every
// framework in this file.
func newArborRouter(b *testing.B) *arbor.Router {
	b.Helper()

	r := arbor.MustNew()
	mustRegister := func(pattern string, h http.Handler) {
		if err := r.Register(http.MethodGet, pattern, h, nil); err != nil {
			b.Fatal(err)
		}
	}

	mustRegister("/", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Hello"))
	}))
	mustRegister("/users/{id}", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ps := arbor.ParamsFromContext(req.Context())
		w.Write([]byte("User: " + ps.Value("id")))
	}))
	mustRegister("/users/{id}/posts/{post_id}", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		ps := arbor.ParamsFromContext(req.Context())
		w.Write([]byte("User: " + ps.Value("id") + ", Post: " + ps.Value("post_id")))
	}))

	r.Freeze()
	return r
}

// BenchmarkArborRouter benchmarks arbor with a single-parameter route.
func BenchmarkArborRouter(b *testing.B) {
	r := newArborRouter(b)

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		r.ServeHTTP(w, req)
	}
}

// BenchmarkArborRouterStatic benchmarks arbor on a purely static route,
// the fast path with no parameter binding.
func BenchmarkArborRouterStatic(b *testing.B) {
	r := newArborRouter(b)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		r.ServeHTTP(w, req)
	}
}

// BenchmarkArborRouterTwoParams benchmarks arbor on a deeper route with two
// parameters.
func BenchmarkArborRouterTwoParams(b *testing.B) {
	r := newArborRouter(b)

	req := httptest.NewRequest(http.MethodGet, "/users/123/posts/456", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		r.ServeHTTP(w, req)
	}
}

// BenchmarkArborMatchOnly benchmarks the raw match path without the HTTP
// adapter, isolating the trie descent and parameter binding cost.
func BenchmarkArborMatchOnly(b *testing.B) {
	r := newArborRouter(b)

	b.ResetTimer()
	for b.Loop() {
		if _, err := r.Match(http.MethodGet, "/users/123/posts/456"); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkStandardMux benchmarks net/http's ServeMux with Go 1.22 patterns.
func BenchmarkStandardMux(b *testing.B) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Hello"))
	})
	mux.HandleFunc("GET /users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("User: " + req.PathValue("id")))
	})
	mux.HandleFunc("GET /users/{id}/posts/{post_id}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("User: " + req.PathValue("id") + ", Post: " + req.PathValue("post_id")))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		mux.ServeHTTP(w, req)
	}
}

// BenchmarkGinRouter benchmarks Gin router
func BenchmarkGinRouter(b *testing.B) {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Hello")
	})
	r.GET("/users/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: %s", c.Param("id"))
	})
	r.GET("/users/:id/posts/:post_id", func(c *gin.Context) {
		c.String(http.StatusOK, "User: %s, Post: %s", c.Param("id"), c.Param("post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		r.ServeHTTP(w, req)
	}
}

// BenchmarkEchoRouter benchmarks Echo router
func BenchmarkEchoRouter(b *testing.B) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello")
	})
	e.GET("/users/:id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id"))
	})
	e.GET("/users/:id/posts/:post_id", func(c echo.Context) error {
		return c.String(http.StatusOK, "User: "+c.Param("id")+", Post: "+c.Param("post_id"))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		e.ServeHTTP(w, req)
	}
}

// BenchmarkChiRouter benchmarks Chi router
func BenchmarkChiRouter(b *testing.B) {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("Hello"))
	})
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("User: " + chi.URLParam(req, "id")))
	})
	r.Get("/users/{id}/posts/{post_id}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("User: " + chi.URLParam(req, "id") + ", Post: " + chi.URLParam(req, "post_id")))
	})

	req := httptest.NewRequest(http.MethodGet, "/users/123", nil)
	w := httptest.NewRecorder()

	b.ResetTimer()
	for b.Loop() {
		w.Body.Reset()
		w.Code = 0
		w.Flushed = false
		r.ServeHTTP(w, req)
	}
}
