package store

import "sort"

// Namespace selects one of the two independent configuration
// partitions. Each has its own file, id counter and active pointer.
type Namespace string

const (
	NamespaceGeneric Namespace = "generic"
	NamespaceGoogle  Namespace = "google"
)

// APIConfig describes one upstream provider configuration. Token may
// hold several newline-delimited keys; only the first non-blank line is
// ever used (see FirstTokenLine).
type APIConfig struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Endpoint string `json:"endpoint"`
	Token    string `json:"token"`
	Model    string `json:"model"`
	Google   bool   `json:"google"`
}

// configSet holds one namespace's records and active pointer.
type configSet struct {
	activeID int
	items    map[int]APIConfig
	nextID   int
}

// configFile is the on-disk shape of a namespace's configuration file.
type configFile struct {
	ActiveID *int        `json:"activeId"`
	Configs  []APIConfig `json:"configs"`
}

func (s *Store) loadConfigs(ns Namespace) {
	var file configFile
	if !s.readJSON(s.configsPath(ns), &file) {
		return
	}
	set := s.configs[ns]
	for _, cfg := range file.Configs {
		set.items[cfg.ID] = cfg
		if cfg.ID >= set.nextID {
			set.nextID = cfg.ID + 1
		}
	}
	// The pointer must reference an existing entry or stay unset.
	if file.ActiveID != nil {
		if _, ok := set.items[*file.ActiveID]; ok {
			set.activeID = *file.ActiveID
		}
	}
}

// Configs returns a namespace's records in id order together with the
// active id, zero when unset.
func (s *Store) Configs(ns Namespace) ([]APIConfig, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.configs[ns]
	return s.configList(set), set.activeID
}

// Config returns one record by id.
func (s *Store) Config(ns Namespace, id int) (APIConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[ns].items[id]
	return cfg, ok
}

// ActiveConfig returns the record the namespace's active pointer
// references.
func (s *Store) ActiveConfig(ns Namespace) (APIConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := s.configs[ns]
	if set.activeID == 0 {
		return APIConfig{}, false
	}
	cfg, ok := set.items[set.activeID]
	return cfg, ok
}

// SaveConfig inserts or overwrites a configuration and always makes it
// the namespace's active one. A non-positive id allocates the next one,
// keeping every stored id addressable.
func (s *Store) SaveConfig(ns Namespace, in APIConfig) APIConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.configs[ns]
	if in.ID <= 0 {
		in.ID = set.nextID
	}
	if in.ID >= set.nextID {
		set.nextID = in.ID + 1
	}
	in.Google = ns == NamespaceGoogle
	set.items[in.ID] = in
	set.activeID = in.ID
	s.persistConfigs(ns)
	return in
}

// ActivateConfig switches the namespace's active pointer. Returns
// ErrNotFound if the id does not exist in that namespace.
func (s *Store) ActivateConfig(ns Namespace, id int) (APIConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.configs[ns]
	cfg, ok := set.items[id]
	if !ok {
		return APIConfig{}, ErrNotFound
	}
	set.activeID = id
	s.persistConfigs(ns)
	return cfg, nil
}

// DeleteConfig removes a record. When the active one is removed, the
// pointer moves to the lowest surviving id or clears.
func (s *Store) DeleteConfig(ns Namespace, id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := s.configs[ns]
	if _, ok := set.items[id]; !ok {
		return false
	}
	delete(set.items, id)
	if set.activeID == id {
		set.activeID = 0
		for _, cfg := range s.configList(set) {
			set.activeID = cfg.ID
			break
		}
	}
	s.persistConfigs(ns)
	return true
}

// configList builds the sorted slice. Callers must hold the lock.
func (s *Store) configList(set *configSet) []APIConfig {
	list := make([]APIConfig, 0, len(set.items))
	for _, cfg := range set.items {
		list = append(list, cfg)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// persistConfigs must be called with the write lock held.
func (s *Store) persistConfigs(ns Namespace) {
	set := s.configs[ns]
	file := configFile{Configs: s.configList(set)}
	if set.activeID != 0 {
		id := set.activeID
		file.ActiveID = &id
	}
	s.writeJSON(s.configsPath(ns), file)
}
