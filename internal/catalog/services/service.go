package services

import (
	"go-forge/pkg/sde"

	"github.com/sahilm/fuzzy"
)

// Service provides business logic for catalog operations. It is a stateless
// query layer over the static data service.
type Service struct {
	sdeService sde.SDEService
}

// NewService creates a new catalog service instance.
func NewService(sdeService sde.SDEService) *Service {
	return &Service{sdeService: sdeService}
}

// GetType returns a type by id, nil when unknown.
func (s *Service) GetType(id int) (*sde.ItemType, error) {
	return s.sdeService.GetType(id)
}

// GetGroup returns a group by id, nil when unknown.
func (s *Service) GetGroup(id int) (*sde.Group, error) {
	return s.sdeService.GetGroup(id)
}

// GetCategory returns a category by id, nil when unknown.
func (s *Service) GetCategory(id int) (*sde.Category, error) {
	return s.sdeService.GetCategory(id)
}

// GetMarketGroup returns a market group by id, nil when unknown.
func (s *Service) GetMarketGroup(id int) (*sde.MarketGroup, error) {
	return s.sdeService.GetMarketGroup(id)
}

// GetBlueprint returns a blueprint by id, nil when unknown.
func (s *Service) GetBlueprint(id int) (*sde.Blueprint, error) {
	return s.sdeService.GetBlueprint(id)
}

// GetDogmaAttribute returns a dogma attribute by id, nil when unknown.
func (s *Service) GetDogmaAttribute(id int) (*sde.DogmaAttribute, error) {
	return s.sdeService.GetDogmaAttribute(id)
}

// TypesInGroup returns the types of a group, in source file order.
func (s *Service) TypesInGroup(groupID int) ([]*sde.ItemType, error) {
	return s.sdeService.TypesInGroup(groupID)
}

// TypesInMarketGroup returns the types of a market group, in source file order.
func (s *Service) TypesInMarketGroup(marketGroupID int) ([]*sde.ItemType, error) {
	return s.sdeService.TypesInMarketGroup(marketGroupID)
}

// GroupsInCategory returns the groups of a category, in source file order.
func (s *Service) GroupsInCategory(categoryID int) ([]*sde.Group, error) {
	return s.sdeService.GroupsInCategory(categoryID)
}

// MarketGroupChildren returns the direct children of a market group. Parent
// id 0 returns the roots of the market browse tree.
func (s *Service) MarketGroupChildren(parentID int) ([]*sde.MarketGroup, error) {
	return s.sdeService.MarketGroupChildren(parentID)
}

// SearchMatch is one fuzzy search hit, best matches first.
type SearchMatch struct {
	Type  *sde.ItemType
	Score int
}

// typeNameSource adapts a type slice to the fuzzy matcher.
type typeNameSource []*sde.ItemType

func (t typeNameSource) String(i int) string { return t[i].Name.English() }
func (t typeNameSource) Len() int            { return len(t) }

// SearchTypes runs a fuzzy name search over published types and returns up
// to limit matches, best score first.
func (s *Service) SearchTypes(query string, limit int) ([]SearchMatch, error) {
	published, err := s.sdeService.PublishedTypes()
	if err != nil {
		return nil, err
	}

	matches := fuzzy.FindFrom(query, typeNameSource(published))
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	results := make([]SearchMatch, 0, len(matches))
	for _, m := range matches {
		results = append(results, SearchMatch{Type: published[m.Index], Score: m.Score})
	}
	return results, nil
}

// Stats reports the static data collection sizes.
func (s *Service) Stats() (map[string]int, error) {
	return s.sdeService.Stats()
}

// Warnings reports the reference warnings recorded during the load.
func (s *Service) Warnings() ([]sde.Warning, error) {
	return s.sdeService.Warnings()
}
