package sync

import (
	"sort"

	"skusync/internal/domain/item"
	"skusync/internal/domain/sku"
)

// Planner выбирает по одному товару на базовый артикул, чтобы варианты
// не запрашивали каталог повторно и не конкурировали за один legacy_item_id
type Planner struct{}

func NewPlanner() *Planner {
	return &Planner{}
}

// Plan ожидает только товары без legacy_item_id
func (p *Planner) Plan(items []item.Item) *Plan {
	plan := &Plan{Total: len(items)}

	groups := make(map[string]*Group)
	var order []string

	for _, it := range items {
		if sku.IsBlank(it.SKU) {
			plan.SkippedBlank++
			continue
		}

		base := sku.DeriveBase(it.SKU)
		g, ok := groups[base]
		if !ok {
			g = &Group{BaseSKU: base}
			groups[base] = g
			order = append(order, base)
		}
		g.Members = append(g.Members, it)
	}

	for _, base := range order {
		g := groups[base]
		g.Representative, g.Reason = selectRepresentative(g)
		plan.Items = append(plan.Items, g.Representative)
		plan.Groups = append(plan.Groups, *g)
		plan.Collapsed += len(g.Members) - 1
	}

	return plan
}

func selectRepresentative(g *Group) (item.Item, SelectReason) {
	if len(g.Members) == 1 {
		return g.Members[0], SelectSingle
	}

	for _, m := range g.Members {
		if m.SKU == g.BaseSKU {
			return m, SelectExactBase
		}
	}

	earliest := g.Members[0]
	for _, m := range g.Members[1:] {
		if m.CreatedAt.Before(earliest.CreatedAt) {
			earliest = m
		}
	}
	return earliest, SelectEarliest
}

// Brands количество товаров-кандидатов по брендам
func (p *Plan) Brands() map[string]int {
	counts := make(map[string]int)
	for _, g := range p.Groups {
		for _, m := range g.Members {
			counts[m.Brand()]++
		}
	}
	return counts
}

// DuplicateSKUs артикулы, встречающиеся у нескольких товаров без legacy_item_id
func (p *Plan) DuplicateSKUs() map[string][]string {
	ids := make(map[string][]string)
	for _, g := range p.Groups {
		for _, m := range g.Members {
			ids[m.SKU] = append(ids[m.SKU], m.ID)
		}
	}

	dups := make(map[string][]string)
	for s, list := range ids {
		if len(list) > 1 {
			sort.Strings(list)
			dups[s] = list
		}
	}
	return dups
}

// VariantGroups группы, в которых больше одного товара
func (p *Plan) VariantGroups() []Group {
	var out []Group
	for _, g := range p.Groups {
		if len(g.Members) > 1 {
			out = append(out, g)
		}
	}
	return out
}
