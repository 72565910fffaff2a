// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package graph

import (
	"context"
	"testing"

	apperrors "modgraph/cli/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T) *MemoryStore {
	t.Helper()
	modules, err := LoadModules("testdata/modules.json")
	require.NoError(t, err)

	store := NewMemoryStore()
	_, err = LoadInto(context.Background(), store, modules)
	require.NoError(t, err)
	return store
}

func TestModulesForProgram(t *testing.T) {
	store := loadFixture(t)
	ctx := context.Background()

	refs, err := store.ModulesForProgram(ctx, "M.Sc.[WS]Mannheim[WS]Master[WS]in[WS]Data[WS]Science")
	require.NoError(t, err)
	assert.Equal(t, []ModuleRef{{Name: "Machine Learning", Description: "Understand ML models."}}, refs)

	// spaces and [WS] address the same program
	refs, err = store.ModulesForProgram(ctx, "B.Sc. Wirtschaftsinformatik")
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "Data Structures and Algorithms", refs[0].Name)
	assert.Equal(t, "Introduction to Programming", refs[1].Name)

	refs, err = store.ModulesForProgram(ctx, "M.Sc.[WS]Wirtschaftsmathematik")
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestModulesByRelation(t *testing.T) {
	store := loadFixture(t)
	ctx := context.Background()

	tests := []struct {
		relation, object string
		want             []string
	}{
		{"hasECTS", "6", []string{"Data Structures and Algorithms", "Introduction to Programming"}},
		{"ECTS", " 8 ", []string{"Machine Learning"}},
		{"taughtBy", "Dr New", []string{"Machine Learning"}},
		{"Lecturer", "Prof Smith", []string{"Introduction to Programming"}},
		{"hasLevel", "Master", []string{"Machine Learning"}},
		{"offeredIn", "FSS", []string{"Data Structures and Algorithms"}},
		{"hasType", "Lecture with Exercise", []string{"Data Structures and Algorithms", "Introduction to Programming"}},
		{"hasLanguage", "German", []string{"Machine Learning"}},
		{"hasLanguage", "French", nil},
	}
	for _, tt := range tests {
		t.Run(tt.relation+"="+tt.object, func(t *testing.T) {
			refs, err := store.ModulesByRelation(ctx, tt.relation, tt.object)
			require.NoError(t, err)
			var names []string
			for _, r := range refs {
				names = append(names, r.Name)
				assert.NotEmpty(t, r.Description)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestModulesByRelationRejectsBadInput(t *testing.T) {
	store := loadFixture(t)
	ctx := context.Background()

	_, err := store.ModulesByRelation(ctx, "hasECTS", "six")
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))

	_, err = store.ModulesByRelation(ctx, "hasApplicationRange", "x")
	assert.True(t, apperrors.Is(err, apperrors.InvalidInput))
}

func TestModuleProperty(t *testing.T) {
	store := loadFixture(t)
	ctx := context.Background()

	values, err := store.ModuleProperty(ctx, "Machine Learning", "taughtBy")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr New", "Prof AI"}, values)

	values, err = store.ModuleProperty(ctx, "Machine[WS]Learning", "hasECTS")
	require.NoError(t, err)
	assert.Equal(t, []string{"8"}, values)

	values, err = store.ModuleProperty(ctx, "Unknown Module", "hasECTS")
	require.NoError(t, err)
	assert.Empty(t, values)

	_, err = store.ModuleProperty(ctx, "Machine Learning", "nope")
	assert.Error(t, err)
}

func TestRelationRangeAndDomain(t *testing.T) {
	store := loadFixture(t)
	ctx := context.Background()

	ects, err := store.RelationRange(ctx, "hasECTS")
	require.NoError(t, err)
	assert.Equal(t, []string{"6", "8"}, ects)

	lecturers, err := store.RelationRange(ctx, "taughtBy")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dr New", "Prof AI", "Prof Doe", "Prof Smith"}, lecturers)

	levels, err := store.RelationRange(ctx, "Level")
	require.NoError(t, err)
	assert.Equal(t, []string{"Bachelor", "Master"}, levels)

	names, err := store.ModuleDomain(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Data Structures and Algorithms", "Introduction to Programming", "Machine Learning"}, names)
}

func TestInsertIgnoresDuplicates(t *testing.T) {
	store := loadFixture(t)
	ctx := context.Background()

	before, err := store.Count(ctx)
	require.NoError(t, err)
	require.Positive(t, before)

	modules, err := LoadModules("testdata/modules.json")
	require.NoError(t, err)
	_, err = LoadInto(ctx, store, modules)
	require.NoError(t, err)

	after, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestInsertHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewMemoryStore().Insert(ctx, BuildTriples(Module{ID: "X1", Name: "X"}))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEveryECTSRangeValueFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	_, err := LoadInto(ctx, store, []Module{
		{ID: "M1", Name: "Seminar", ECTS: "7.5"},
		{ID: "M2", Name: "Lecture", ECTS: "6.0"},
		{ID: "M3", Name: "Project", ECTS: "12"},
		{ID: "M4", Name: "Thesis", ECTS: "n/a"},
	})
	require.NoError(t, err)

	values, err := store.RelationRange(ctx, "hasECTS")
	require.NoError(t, err)
	assert.Equal(t, []string{"6", "7.5", "12"}, values, "non-numeric ECTS is not offered")

	for _, v := range values {
		refs, err := store.ModulesByRelation(ctx, "hasECTS", v)
		require.NoError(t, err, "value %q", v)
		assert.Len(t, refs, 1, "value %q", v)
	}
}

func TestNumberTerm(t *testing.T) {
	tests := []struct {
		in   string
		want Term
		ok   bool
	}{
		{"6", Literal("6", XSDInteger), true},
		{" 6.0 ", Literal("6", XSDInteger), true},
		{"7.5", Literal("7.5", XSDDecimal), true},
		{"six", Term{}, false},
		{"1e3", Term{}, false},
		{"NaN", Term{}, false},
		{".", Term{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NumberTerm(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
