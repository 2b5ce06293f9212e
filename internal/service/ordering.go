package service

import (
	"github.com/google/uuid"

	"github.com/ahavlova/portfolio-backend/internal/models"
	"github.com/ahavlova/portfolio-backend/internal/repository"
)

// renumberGroup присваивает группе плотные индексы 0..n-1 в заданном
// порядке, не меняя родителя.
func renumberGroup(ids []uuid.UUID, parentID *uuid.UUID) []repository.ProjectOrder {
	orders := make([]repository.ProjectOrder, 0, len(ids))
	for i, id := range ids {
		orders = append(orders, repository.ProjectOrder{
			ID:         id,
			ParentID:   parentID,
			OrderIndex: i,
		})
	}
	return orders
}

// sameIDSet проверяет, что запрошенный порядок содержит ровно те же
// идентификаторы, что и текущая группа, без пропусков и дубликатов.
func sameIDSet(current []models.Project, requested []uuid.UUID) bool {
	if len(current) != len(requested) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(current))
	for _, p := range current {
		seen[p.ID] = true
	}
	for _, id := range requested {
		if !seen[id] {
			return false
		}
		delete(seen, id)
	}
	return len(seen) == 0
}

func idsOf(projects []models.Project) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids
}
