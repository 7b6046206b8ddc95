// Copyright 2024 bookend Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes fitted models over a REST API.
package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	restful "github.com/emicklei/go-restful/v3"
	"github.com/jellydator/ttlcache/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookend-io/bookend/base/log"
	"github.com/bookend-io/bookend/cb"
	"github.com/bookend-io/bookend/config"
	"github.com/bookend-io/bookend/model"
	"go.uber.org/zap"
)

// RestServer serves recommendations from a fitted CF model and similar
// books from a fitted content model. Both models are read-only once the
// server starts, so handlers share them without locking.
type RestServer struct {
	Config       *config.Config
	Model        model.Model
	ContentModel *cb.ContentModel
	WebService   *restful.WebService

	recommendCache *ttlcache.Cache[string, []model.Score]
	similarCache   *ttlcache.Cache[string, []cb.Similarity]
}

// NewRestServer creates a REST server over fitted models.
func NewRestServer(cfg *config.Config, m model.Model, contentModel *cb.ContentModel) *RestServer {
	ttl := time.Duration(cfg.Server.CacheTTL) * time.Second
	return &RestServer{
		Config:       cfg,
		Model:        m,
		ContentModel: contentModel,
		WebService:   new(restful.WebService),
		recommendCache: ttlcache.New(
			ttlcache.WithTTL[string, []model.Score](ttl)),
		similarCache: ttlcache.New(
			ttlcache.WithTTL[string, []cb.Similarity](ttl)),
	}
}

// StartHttpServer starts the REST API server. It blocks until the listener
// fails.
func (s *RestServer) StartHttpServer() {
	s.CreateWebService()
	restful.DefaultContainer.Add(s.WebService)
	http.Handle("/metrics", promhttp.Handler())
	go s.recommendCache.Start()
	go s.similarCache.Start()
	address := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	log.Logger().Info("start http server",
		zap.String("url", fmt.Sprintf("http://%s", address)))
	log.Logger().Fatal("failed to start http server",
		zap.Error(http.ListenAndServe(address, nil)))
}

// LogFilter logs every request with its status code.
func LogFilter(req *restful.Request, resp *restful.Response, chain *restful.FilterChain) {
	chain.ProcessFilter(req, resp)
	log.Logger().Info(fmt.Sprintf("%s %s", req.Request.Method, req.Request.URL),
		zap.Int("status_code", resp.StatusCode()))
}

// CreateWebService registers the API routes.
func (s *RestServer) CreateWebService() {
	ws := s.WebService
	ws.Consumes(restful.MIME_JSON).Produces(restful.MIME_JSON)
	ws.Path("/api/")
	ws.Filter(LogFilter)

	// Recommend books for a user
	ws.Route(ws.GET("/recommend/{user-id}").To(s.getRecommend).
		Doc("Recommend books for a user.").
		Param(ws.PathParameter("user-id", "identifier of the user").DataType("integer")).
		Param(ws.QueryParameter("n", "number of returned books").DataType("integer")).
		Writes([]model.Score{}))
	// Get similar books
	ws.Route(ws.GET("/similar/{book-id}").To(s.getSimilar).
		Doc("Get similar books.").
		Param(ws.PathParameter("book-id", "identifier of the book").DataType("integer")).
		Param(ws.QueryParameter("n", "number of returned books").DataType("integer")).
		Writes([]cb.Similarity{}))
}

// ParseInt parses an integer query parameter with a fallback for a missing
// value.
func ParseInt(request *restful.Request, name string, fallback int) (int, error) {
	valueString := request.QueryParameter(name)
	if valueString == "" {
		return fallback, nil
	}
	return strconv.Atoi(valueString)
}

// getRecommend recommends the top books of a user. Cold-start users get an
// empty array, not an error.
func (s *RestServer) getRecommend(request *restful.Request, response *restful.Response) {
	start := time.Now()
	userId, err := strconv.Atoi(request.PathParameter("user-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	n, err := ParseInt(request, "n", s.Config.Server.NRecommend)
	if err != nil {
		BadRequest(response, err)
		return
	}
	key := fmt.Sprintf("%d/%d", userId, n)
	if item := s.recommendCache.Get(key); item != nil {
		CacheHitTotal.WithLabelValues("recommend").Inc()
		Ok(response, item.Value())
		return
	}
	scores, err := s.Model.Recommend(userId, n)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	s.recommendCache.Set(key, scores, ttlcache.DefaultTTL)
	GetRecommendSeconds.Observe(time.Since(start).Seconds())
	Ok(response, scores)
}

// getSimilar returns the books closest to a book. Unknown books get an
// empty array, not an error.
func (s *RestServer) getSimilar(request *restful.Request, response *restful.Response) {
	start := time.Now()
	bookId, err := strconv.Atoi(request.PathParameter("book-id"))
	if err != nil {
		BadRequest(response, err)
		return
	}
	n, err := ParseInt(request, "n", s.Config.Server.NRecommend)
	if err != nil {
		BadRequest(response, err)
		return
	}
	key := fmt.Sprintf("%d/%d", bookId, n)
	if item := s.similarCache.Get(key); item != nil {
		CacheHitTotal.WithLabelValues("similar").Inc()
		Ok(response, item.Value())
		return
	}
	similar, err := s.ContentModel.Recommend(bookId, n)
	if err != nil {
		InternalServerError(response, err)
		return
	}
	s.similarCache.Set(key, similar, ttlcache.DefaultTTL)
	GetSimilarSeconds.Observe(time.Since(start).Seconds())
	Ok(response, similar)
}

// Ok writes a successful response.
func Ok(response *restful.Response, content interface{}) {
	if err := response.WriteAsJson(content); err != nil {
		log.Logger().Error("failed to write response", zap.Error(err))
	}
}

// BadRequest returns a bad request error.
func BadRequest(response *restful.Response, err error) {
	log.Logger().Error("bad request", zap.Error(err))
	if err = response.WriteError(http.StatusBadRequest, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}

// InternalServerError returns an internal server error.
func InternalServerError(response *restful.Response, err error) {
	log.Logger().Error("internal server error", zap.Error(err))
	if err = response.WriteError(http.StatusInternalServerError, err); err != nil {
		log.Logger().Error("failed to write error", zap.Error(err))
	}
}
