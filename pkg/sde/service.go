package sde

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
)

// Snapshot file names inside the SDE data directory. All of them are
// required; the load is all-or-nothing.
const (
	typesFile           = "types.jsonl"
	groupsFile          = "groups.jsonl"
	categoriesFile      = "categories.jsonl"
	marketGroupsFile    = "marketGroups.jsonl"
	blueprintsFile      = "blueprints.jsonl"
	typeMaterialsFile   = "typeMaterials.jsonl"
	dogmaAttributesFile = "dogmaAttributes.jsonl"
)

// Warning records a tolerated data inconsistency found at load time, such as
// an unresolved cross-reference. The referencing record stays available.
type Warning struct {
	Source  string `json:"source"`
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// snapshot is one immutable, fully indexed view of the SDE. It is built in a
// single load pass and swapped in atomically so in-flight readers always see
// a consistent state.
type snapshot struct {
	types           map[int]*ItemType
	groups          map[int]*Group
	categories      map[int]*Category
	marketGroups    map[int]*MarketGroup
	blueprints      map[int]*Blueprint
	typeMaterials   map[int]*TypeMaterial
	dogmaAttributes map[int]*DogmaAttribute

	// Derived indices. Values are id slices in source file order.
	typesByGroup        map[int][]int
	typesByCategory     map[int][]int
	typesByMarketGroup  map[int][]int
	groupsByCategory    map[int][]int
	marketGroupChildren map[int][]int
	rootMarketGroups    []int
	blueprintsByProduct map[int][]int
	publishedTypes      []int

	lineErrors map[string][]LineError
	warnings   []Warning
}

// Service provides in-memory access to EVE Online SDE data. Data is loaded
// lazily on first query and held for the process lifetime; Reload replaces
// the whole snapshot atomically.
type Service struct {
	dataDir string
	snap    atomic.Pointer[snapshot]
	loadMu  sync.Mutex // single-flight guard around the load routine
}

// NewService creates a new SDE service instance. No file I/O happens until
// the first query or an explicit EnsureLoaded call.
func NewService(dataDir string) *Service {
	return &Service{dataDir: dataDir}
}

// EnsureLoaded loads the SDE snapshot if it has not been loaded yet. It is
// idempotent and safe for concurrent callers: the first caller performs the
// load, later callers either see the fast path or wait on the load lock.
func (s *Service) EnsureLoaded() error {
	// Fast path: a snapshot is already published.
	if s.snap.Load() != nil {
		return nil
	}

	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	// Double-check after acquiring the lock (another goroutine might have
	// finished the load while we were waiting).
	if s.snap.Load() != nil {
		return nil
	}

	snap, err := s.buildSnapshot()
	if err != nil {
		return err
	}
	s.snap.Store(snap)
	return nil
}

// Reload discards all loaded state and repeats the full load. The previous
// snapshot stays readable until the new one is swapped in; there is no
// partial or incremental update path.
func (s *Service) Reload() error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	snap, err := s.buildSnapshot()
	if err != nil {
		return err
	}
	s.snap.Store(snap)
	return nil
}

// IsLoaded returns whether SDE data has been loaded
func (s *Service) IsLoaded() bool {
	return s.snap.Load() != nil
}

// current returns the active snapshot, loading it first if needed.
func (s *Service) current() (*snapshot, error) {
	if err := s.EnsureLoaded(); err != nil {
		return nil, err
	}
	return s.snap.Load(), nil
}

// buildSnapshot performs the full load: every record set is read, keyed and
// indexed in one pass. Nothing becomes queryable unless every required file
// is present.
func (s *Service) buildSnapshot() (*snapshot, error) {
	snap := &snapshot{
		types:               make(map[int]*ItemType),
		groups:              make(map[int]*Group),
		categories:          make(map[int]*Category),
		marketGroups:        make(map[int]*MarketGroup),
		blueprints:          make(map[int]*Blueprint),
		typeMaterials:       make(map[int]*TypeMaterial),
		dogmaAttributes:     make(map[int]*DogmaAttribute),
		typesByGroup:        make(map[int][]int),
		typesByCategory:     make(map[int][]int),
		typesByMarketGroup:  make(map[int][]int),
		groupsByCategory:    make(map[int][]int),
		marketGroupChildren: make(map[int][]int),
		blueprintsByProduct: make(map[int][]int),
		lineErrors:          make(map[string][]LineError),
	}

	categories, errs, err := decodeLines[Category](filepath.Join(s.dataDir, categoriesFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	snap.recordErrs(categoriesFile, errs)
	for i := range categories {
		snap.categories[categories[i].ID] = &categories[i]
	}

	groups, errs, err := decodeLines[Group](filepath.Join(s.dataDir, groupsFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load groups: %w", err)
	}
	snap.recordErrs(groupsFile, errs)
	for i := range groups {
		g := &groups[i]
		snap.groups[g.ID] = g
		snap.groupsByCategory[g.CategoryID] = append(snap.groupsByCategory[g.CategoryID], g.ID)
	}

	marketGroups, errs, err := decodeLines[MarketGroup](filepath.Join(s.dataDir, marketGroupsFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load market groups: %w", err)
	}
	snap.recordErrs(marketGroupsFile, errs)
	for i := range marketGroups {
		mg := &marketGroups[i]
		snap.marketGroups[mg.ID] = mg
		if mg.ParentGroupID != 0 {
			snap.marketGroupChildren[mg.ParentGroupID] = append(snap.marketGroupChildren[mg.ParentGroupID], mg.ID)
		} else {
			snap.rootMarketGroups = append(snap.rootMarketGroups, mg.ID)
		}
	}
	snap.checkMarketGroupTree()

	types, errs, err := decodeLines[ItemType](filepath.Join(s.dataDir, typesFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load types: %w", err)
	}
	snap.recordErrs(typesFile, errs)
	for i := range types {
		t := &types[i]
		snap.types[t.ID] = t
		snap.typesByGroup[t.GroupID] = append(snap.typesByGroup[t.GroupID], t.ID)
		if g, ok := snap.groups[t.GroupID]; ok {
			snap.typesByCategory[g.CategoryID] = append(snap.typesByCategory[g.CategoryID], t.ID)
		}
		if t.MarketGroupID != 0 {
			snap.typesByMarketGroup[t.MarketGroupID] = append(snap.typesByMarketGroup[t.MarketGroupID], t.ID)
		}
		if t.Published {
			snap.publishedTypes = append(snap.publishedTypes, t.ID)
		}
	}

	blueprints, errs, err := decodeLines[Blueprint](filepath.Join(s.dataDir, blueprintsFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load blueprints: %w", err)
	}
	snap.recordErrs(blueprintsFile, errs)
	for i := range blueprints {
		bp := &blueprints[i]
		snap.blueprints[bp.ID] = bp
		if m := bp.Activities.Manufacturing; m != nil {
			for _, p := range m.Products {
				snap.blueprintsByProduct[p.TypeID] = append(snap.blueprintsByProduct[p.TypeID], bp.ID)
			}
			for _, mat := range m.Materials {
				if _, ok := snap.types[mat.TypeID]; !ok {
					snap.warn("blueprint", bp.ID, fmt.Sprintf("manufacturing material references unknown type %d", mat.TypeID))
				}
			}
		}
	}

	typeMaterials, errs, err := decodeLines[TypeMaterial](filepath.Join(s.dataDir, typeMaterialsFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load type materials: %w", err)
	}
	snap.recordErrs(typeMaterialsFile, errs)
	for i := range typeMaterials {
		snap.typeMaterials[typeMaterials[i].TypeID] = &typeMaterials[i]
	}

	dogmaAttributes, errs, err := decodeLines[DogmaAttribute](filepath.Join(s.dataDir, dogmaAttributesFile), 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load dogma attributes: %w", err)
	}
	snap.recordErrs(dogmaAttributesFile, errs)
	for i := range dogmaAttributes {
		snap.dogmaAttributes[dogmaAttributes[i].ID] = &dogmaAttributes[i]
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	slog.Info("SDE data loaded successfully",
		"types_count", len(snap.types),
		"groups_count", len(snap.groups),
		"categories_count", len(snap.categories),
		"market_groups_count", len(snap.marketGroups),
		"blueprints_count", len(snap.blueprints),
		"type_materials_count", len(snap.typeMaterials),
		"dogma_attributes_count", len(snap.dogmaAttributes),
		"skipped_lines", snap.skippedLines(),
		"warnings", len(snap.warnings),
		"heap_size", formatBytes(m.HeapAlloc),
	)

	return snap, nil
}

func (sn *snapshot) recordErrs(file string, errs []LineError) {
	if len(errs) > 0 {
		sn.lineErrors[file] = errs
	}
}

func (sn *snapshot) warn(source string, id int, msg string) {
	sn.warnings = append(sn.warnings, Warning{Source: source, ID: id, Message: msg})
	slog.Warn("SDE reference warning", "source", source, "id", id, "message", msg)
}

func (sn *snapshot) skippedLines() int {
	total := 0
	for _, errs := range sn.lineErrors {
		total += len(errs)
	}
	return total
}

// checkMarketGroupTree verifies that parent references form a forest. Cycles
// and dangling parents are recorded as warnings, not corrected.
func (sn *snapshot) checkMarketGroupTree() {
	for id, mg := range sn.marketGroups {
		if mg.ParentGroupID == 0 {
			continue
		}
		seen := map[int]bool{id: true}
		cur := mg.ParentGroupID
		for cur != 0 {
			if seen[cur] {
				sn.warn("marketGroup", id, fmt.Sprintf("parent chain contains a cycle through %d", cur))
				break
			}
			seen[cur] = true
			parent, ok := sn.marketGroups[cur]
			if !ok {
				sn.warn("marketGroup", id, fmt.Sprintf("parent references unknown market group %d", cur))
				break
			}
			cur = parent.ParentGroupID
		}
	}
}

// GetType retrieves an item type by id. An unknown id yields (nil, nil);
// absence is an expected condition, not an error.
func (s *Service) GetType(id int) (*ItemType, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.types[id], nil
}

// GetGroup retrieves a group by id, or nil if unknown.
func (s *Service) GetGroup(id int) (*Group, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.groups[id], nil
}

// GetCategory retrieves a category by id, or nil if unknown.
func (s *Service) GetCategory(id int) (*Category, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.categories[id], nil
}

// GetMarketGroup retrieves a market group by id, or nil if unknown.
func (s *Service) GetMarketGroup(id int) (*MarketGroup, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.marketGroups[id], nil
}

// GetBlueprint retrieves a blueprint by id, or nil if unknown.
func (s *Service) GetBlueprint(id int) (*Blueprint, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.blueprints[id], nil
}

// GetTypeMaterials retrieves the reprocessing material set of a type, or nil
// if the type has none.
func (s *Service) GetTypeMaterials(typeID int) (*TypeMaterial, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.typeMaterials[typeID], nil
}

// GetDogmaAttribute retrieves a dogma attribute by id, or nil if unknown.
func (s *Service) GetDogmaAttribute(id int) (*DogmaAttribute, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.dogmaAttributes[id], nil
}

// TypesInGroup returns all types in a group, in source file order.
func (s *Service) TypesInGroup(groupID int) ([]*ItemType, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.collectTypes(snap.typesByGroup[groupID]), nil
}

// TypesInCategory returns all types whose group belongs to the category.
func (s *Service) TypesInCategory(categoryID int) ([]*ItemType, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.collectTypes(snap.typesByCategory[categoryID]), nil
}

// TypesInMarketGroup returns all types listed under a market group.
func (s *Service) TypesInMarketGroup(marketGroupID int) ([]*ItemType, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.collectTypes(snap.typesByMarketGroup[marketGroupID]), nil
}

// GroupsInCategory returns all groups of a category, in source file order.
func (s *Service) GroupsInCategory(categoryID int) ([]*Group, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	ids := snap.groupsByCategory[categoryID]
	groups := make([]*Group, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, snap.groups[id])
	}
	return groups, nil
}

// MarketGroupChildren returns the direct children of a market group, in
// source file order. Parent id 0 returns the root market groups.
func (s *Service) MarketGroupChildren(parentID int) ([]*MarketGroup, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	var ids []int
	if parentID == 0 {
		ids = snap.rootMarketGroups
	} else {
		ids = snap.marketGroupChildren[parentID]
	}
	groups := make([]*MarketGroup, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, snap.marketGroups[id])
	}
	return groups, nil
}

// PublishedTypes returns all published types, in source file order.
func (s *Service) PublishedTypes() ([]*ItemType, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.collectTypes(snap.publishedTypes), nil
}

// BlueprintsProducing returns the blueprints whose manufacturing activity
// outputs the given type, in source file order.
func (s *Service) BlueprintsProducing(typeID int) ([]*Blueprint, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	ids := snap.blueprintsByProduct[typeID]
	bps := make([]*Blueprint, 0, len(ids))
	for _, id := range ids {
		bps = append(bps, snap.blueprints[id])
	}
	return bps, nil
}

// MaterialsFor returns the ordered material list of a blueprint activity, or
// nil when the blueprint or the activity is absent.
func (s *Service) MaterialsFor(blueprintID int, activity string) ([]Material, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	bp, ok := snap.blueprints[blueprintID]
	if !ok {
		return nil, nil
	}
	act := bp.Activities.ByName(activity)
	if act == nil {
		return nil, nil
	}
	return act.Materials, nil
}

// Warnings returns the tolerated inconsistencies recorded during the load.
func (s *Service) Warnings() ([]Warning, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.warnings, nil
}

// LineErrors returns the skipped malformed lines per snapshot file.
func (s *Service) LineErrors() (map[string][]LineError, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.lineErrors, nil
}

// Stats reports collection sizes of the active snapshot.
func (s *Service) Stats() (map[string]int, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return map[string]int{
		"types":            len(snap.types),
		"groups":           len(snap.groups),
		"categories":       len(snap.categories),
		"market_groups":    len(snap.marketGroups),
		"blueprints":       len(snap.blueprints),
		"type_materials":   len(snap.typeMaterials),
		"dogma_attributes": len(snap.dogmaAttributes),
		"skipped_lines":    snap.skippedLines(),
		"warnings":         len(snap.warnings),
	}, nil
}

func (sn *snapshot) collectTypes(ids []int) []*ItemType {
	types := make([]*ItemType, 0, len(ids))
	for _, id := range ids {
		types = append(types, sn.types[id])
	}
	return types
}

// formatBytes converts bytes to human readable format
func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
