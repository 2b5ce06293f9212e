package service

import (
	"sort"

	"github.com/google/uuid"

	"github.com/ahavlova/portfolio-backend/internal/models"
)

// TreeNode — элемент верхнего уровня портфолио. Children заполняется только
// для коллекций; у детей собственного поля Children нет, поэтому глубина
// дерева ограничена двумя уровнями самой структурой типов.
type TreeNode struct {
	Project  models.Project   `json:"project"`
	Children []models.Project `json:"children,omitempty"`
}

// BuildTree собирает двухуровневое дерево из плоского списка. Узлы с
// отсутствующим или некорректным родителем поднимаются на верхний уровень,
// чтобы проект не пропадал из админки из-за битой ссылки.
func BuildTree(projects []models.Project) []TreeNode {
	byID := make(map[uuid.UUID]models.Project, len(projects))
	for _, p := range projects {
		byID[p.ID] = p
	}

	children := make(map[uuid.UUID][]models.Project)
	var roots []models.Project
	for _, p := range projects {
		if p.ParentID == nil {
			roots = append(roots, p)
			continue
		}
		parent, ok := byID[*p.ParentID]
		if !ok || !parent.IsCollection {
			roots = append(roots, p)
			continue
		}
		children[*p.ParentID] = append(children[*p.ParentID], p)
	}

	sortByOrder(roots)

	nodes := make([]TreeNode, 0, len(roots))
	for _, root := range roots {
		node := TreeNode{Project: root}
		if root.IsCollection {
			kids := children[root.ID]
			sortByOrder(kids)
			node.Children = kids
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// PublishedTree оставляет в дереве только опубликованные узлы: скрытый
// корень прячет и своих детей, скрытый ребёнок выпадает из коллекции.
func PublishedTree(projects []models.Project) []TreeNode {
	full := BuildTree(projects)

	out := make([]TreeNode, 0, len(full))
	for _, node := range full {
		if !node.Project.IsPublished {
			continue
		}
		filtered := TreeNode{Project: node.Project}
		for _, child := range node.Children {
			if child.IsPublished {
				filtered.Children = append(filtered.Children, child)
			}
		}
		out = append(out, filtered)
	}
	return out
}

func sortByOrder(projects []models.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		if projects[i].OrderIndex != projects[j].OrderIndex {
			return projects[i].OrderIndex < projects[j].OrderIndex
		}
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
}
