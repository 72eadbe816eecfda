// Package service exposes the tracker over a read-only HTTP API.
package service

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/lnrecon/lnrecon/src/common"
	"github.com/lnrecon/lnrecon/src/identity"
	"github.com/lnrecon/lnrecon/src/tracker"
	"github.com/lnrecon/lnrecon/src/tree"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Service ...
type Service struct {
	bindAddress string
	tracker     *tracker.Tracker
	mux         *http.ServeMux
	logger      *logrus.Entry
}

// NewService ...
func NewService(bindAddress string, t *tracker.Tracker, logger *logrus.Entry) *Service {
	service := Service{
		bindAddress: bindAddress,
		tracker:     t,
		mux:         http.NewServeMux(),
		logger:      logger,
	}

	service.registerHandlers()

	return &service
}

func (s *Service) registerHandlers() {
	s.logger.Debug("Registering API handlers")
	s.mux.HandleFunc("/stats", s.makeHandler(s.GetStats))
	s.mux.HandleFunc("/channels", s.makeHandler(s.GetChannels))
	s.mux.HandleFunc("/channel/", s.makeHandler(s.GetChannel))
	s.mux.HandleFunc("/nodes", s.makeHandler(s.GetNodes))
	s.mux.HandleFunc("/node/", s.makeHandler(s.GetNode))
	s.mux.Handle("/metrics", promhttp.Handler())
}

func (s *Service) makeHandler(fn func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		// enable CORS
		w.Header().Set("Access-Control-Allow-Origin", "*")

		fn(w, r)
	}
}

// Handler returns the API handler, for embedding in another server.
func (s *Service) Handler() http.Handler {
	return s.mux
}

// Serve calls ListenAndServe. This is a blocking call.
func (s *Service) Serve() error {
	s.logger.WithField("bind_address", s.bindAddress).Debug("Serving API")

	err := http.ListenAndServe(s.bindAddress, s.mux)
	if err != nil {
		s.logger.Error(err)
	}
	return err
}

// GetStats ...
func (s *Service) GetStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.tracker.Stats())
}

// GetChannels lists the keys of tracked channels.
func (s *Service) GetChannels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.tracker.Channels())
}

// GetNodes lists the keys of tracked nodes.
func (s *Service) GetNodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.tracker.Nodes())
}

// GetChannel returns the dump of one channel, or its plain view with
// ?format=view.
func (s *Service) GetChannel(w http.ResponseWriter, r *http.Request) {
	s.getEntity(w, r, identity.ChannelKind, "/channel/", func(key string) (map[string]interface{}, error) {
		c, err := s.tracker.Channel(key)
		if err != nil {
			return nil, err
		}
		return c.ToView(), nil
	})
}

// GetNode returns the dump of one node, or its plain view with ?format=view.
func (s *Service) GetNode(w http.ResponseWriter, r *http.Request) {
	s.getEntity(w, r, identity.NodeKind, "/node/", func(key string) (map[string]interface{}, error) {
		n, err := s.tracker.Node(key)
		if err != nil {
			return nil, err
		}
		return n.ToView(), nil
	})
}

func (s *Service) getEntity(w http.ResponseWriter, r *http.Request, kind, prefix string, view func(string) (map[string]interface{}, error)) {
	key := strings.ToLower(strings.TrimPrefix(r.URL.Path, prefix))
	if !identity.Valid(key) {
		http.Error(w, "invalid key "+key, http.StatusBadRequest)
		return
	}

	var (
		res map[string]interface{}
		err error
	)
	switch format := r.URL.Query().Get("format"); format {
	case "", "dump":
		res, err = s.tracker.Dump(kind, key)
	case "view":
		res, err = view(key)
	default:
		http.Error(w, "unknown format "+format, http.StatusBadRequest)
		return
	}
	if err != nil {
		if common.IsStore(err, common.KeyNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.WithError(err).Errorf("Retrieving %s %s", kind, key)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	raw, err := tree.Marshal(res)
	if err != nil {
		s.logger.WithError(err).Errorf("Encoding %s %s", kind, key)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(raw)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(v)
}
