// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package timeline groups projects by calendar year for the index page.
package timeline

import (
	"cmp"
	"slices"

	"portfolio/internal/models"
)

// YearGroup is the set of projects that started in one calendar year.
type YearGroup struct {
	Year     int
	Projects []models.Project
}

// GroupByYear buckets projects by the year of their start date. Groups come
// out newest year first; within a group, projects keep their input order.
func GroupByYear(projects []models.Project) []YearGroup {
	byYear := make(map[int][]models.Project)
	for _, p := range projects {
		y := p.Year()
		byYear[y] = append(byYear[y], p)
	}

	groups := make([]YearGroup, 0, len(byYear))
	for y, ps := range byYear {
		groups = append(groups, YearGroup{Year: y, Projects: ps})
	}
	slices.SortFunc(groups, func(a, b YearGroup) int {
		return cmp.Compare(b.Year, a.Year)
	})
	return groups
}

// Flatten returns the projects of all groups in group order.
func Flatten(groups []YearGroup) []models.Project {
	var out []models.Project
	for _, g := range groups {
		out = append(out, g.Projects...)
	}
	return out
}
