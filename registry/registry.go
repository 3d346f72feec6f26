// Package registry resolves denominations to transfer routes from a
// TOML route file, which is reloaded when it changes on disk.
package registry

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/anyswap/CrossChain-Swaps/log"
	"github.com/anyswap/CrossChain-Swaps/tokens"
	"github.com/fsnotify/fsnotify"
)

// RoutesConfig route file content
type RoutesConfig struct {
	Routes []*tokens.Route
}

// FileRegistry registry backed by a route file
type FileRegistry struct {
	file string

	mu     sync.RWMutex
	routes map[string]*tokens.Route
}

var _ tokens.Registry = (*FileRegistry)(nil)

// NewFileRegistry load routes from file
func NewFileRegistry(file string) (*FileRegistry, error) {
	r := &FileRegistry{file: file}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// LoadRoutes decode and check route file
func LoadRoutes(file string) (map[string]*tokens.Route, error) {
	var config RoutesConfig
	if _, err := toml.DecodeFile(file, &config); err != nil {
		return nil, err
	}
	routes := make(map[string]*tokens.Route, len(config.Routes))
	for _, route := range config.Routes {
		if err := checkRoute(route); err != nil {
			return nil, err
		}
		key := strings.ToLower(route.Denom)
		if _, exist := routes[key]; exist {
			return nil, fmt.Errorf("duplicate route of denom '%v'", route.Denom)
		}
		routes[key] = route
	}
	return routes, nil
}

func checkRoute(route *tokens.Route) error {
	if route.Denom == "" {
		return errors.New("route without denom")
	}
	if len(route.Hops) == 0 {
		return fmt.Errorf("route of denom '%v' has no hops", route.Denom)
	}
	if route.UnwrapsTo != "" && len(route.Hops) < 2 {
		return fmt.Errorf("unwrap route of denom '%v' needs at least two hops", route.Denom)
	}
	for i, hop := range route.Hops {
		if hop.Port == "" || hop.Channel == "" {
			return fmt.Errorf("route of denom '%v' hop %d has empty port or channel", route.Denom, i)
		}
	}
	return nil
}

// Reload reload the route file, the current routes are kept on error
func (r *FileRegistry) Reload() error {
	routes, err := LoadRoutes(r.file)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.routes = routes
	r.mu.Unlock()
	return nil
}

// ResolveRoute impl tokens.Registry
func (r *FileRegistry) ResolveRoute(denom string) (*tokens.Route, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	route, exist := r.routes[strings.ToLower(denom)]
	if !exist {
		return nil, fmt.Errorf("%w: '%v'", tokens.ErrRouteNotFound, denom)
	}
	clone := *route
	clone.Hops = append([]tokens.Hop{}, route.Hops...)
	return &clone, nil
}

// Denoms list all denoms with a route
func (r *FileRegistry) Denoms() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	denoms := make([]string, 0, len(r.routes))
	for _, route := range r.routes {
		denoms = append(denoms, route.Denom)
	}
	return denoms
}

// Watch reload the route file on change until ctx is done.
// The directory is watched since editors often replace the file.
func (r *FileRegistry) Watch(ctx context.Context) error {
	watch, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err = watch.Add(filepath.Dir(r.file)); err != nil {
		_ = watch.Close()
		return err
	}
	go r.startWatcher(ctx, watch)
	return nil
}

func (r *FileRegistry) startWatcher(ctx context.Context, watch *fsnotify.Watcher) {
	log.Info("start watching route file", "file", r.file)
	defer func() {
		log.Info("stop watching route file", "file", r.file)
		_ = watch.Close()
	}()

	target := filepath.Clean(r.file)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watch.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			log.Trace("fsnotify watch event", "event", ev)
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			fileStat, _ := os.Stat(r.file)
			// ignore if file is not exist, or is empty file
			if fileStat == nil || fileStat.Size() == 0 {
				continue
			}
			if err := r.Reload(); err != nil {
				log.Warn("reload route file failed", "file", r.file, "err", err)
				continue
			}
			log.Info("reload route file success", "file", r.file, "denoms", r.Denoms())
		case werr, ok := <-watch.Errors:
			if !ok {
				return
			}
			log.Warn("fsnotify watch error", "err", werr)
		}
	}
}
