// Copyright (c) 2025 Modgraph
// Licensed under the MIT License. See LICENSE file in the project root for details.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestModuleFilterRequestProgram(t *testing.T) {
	assert.Equal(t, "a", ModuleFilterRequest{Module: "a", Subject: "b"}.Program())
	assert.Equal(t, "b", ModuleFilterRequest{Subject: "b"}.Program())
	assert.Equal(t, "", ModuleFilterRequest{}.Program())
}

func TestStructCarriesEnvelope(t *testing.T) {
	s, err := ToStruct(Envelope{Results: []Row{
		{ModuleName: "Data Mining", Description: "Mining data"},
		{ModuleName: "Process Mining"},
	}})
	require.NoError(t, err)

	list := s.Fields["results"].GetListValue()
	require.NotNil(t, list)
	require.Len(t, list.Values, 2)
	second := list.Values[1].GetStructValue()
	_, hasDescription := second.Fields["description"]
	assert.False(t, hasDescription, "empty fields are omitted")

	var env Envelope
	require.NoError(t, FromStruct(s, &env))
	assert.Equal(t, "Mining data", env.Results[0].Description)
}

func TestFromStructRejectsWrongShape(t *testing.T) {
	s, err := structpb.NewStruct(map[string]any{"results": "not a list"})
	require.NoError(t, err)

	var env Envelope
	assert.Error(t, FromStruct(s, &env))
	assert.Error(t, FromStruct(nil, &env))
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/modgraph.v1.QueryService/ModuleFilter", FullMethod(MethodModuleFilter))
}
