package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"entrance-client/internal/model"
	"entrance-client/internal/service"
)

func TestRegisterBuildingValidation(t *testing.T) {
	client, calls := newClient(t, func(w http.ResponseWriter, r *http.Request) {})
	buildings := service.NewBuildings(client)

	_, err := buildings.Register(context.Background(), "", "ул. Витоша 15", 24)
	require.ErrorContains(t, err, "name")

	_, err = buildings.Register(context.Background(), "Вход А", "", 24)
	require.ErrorContains(t, err, "address")

	_, err = buildings.Register(context.Background(), "Вход А", "ул. Витоша 15", 0)
	require.ErrorContains(t, err, "units")

	require.Zero(t, *calls)
}

func TestRegisterBuildingReturnsAccessCode(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/buildings/register", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(model.Building{ID: 1, Name: "Вход А", AccessCode: "482913"})
	})
	buildings := service.NewBuildings(client)

	building, err := buildings.Register(context.Background(), "Вход А", "ул. Витоша 15, София", 24)
	require.NoError(t, err)
	require.Len(t, building.AccessCode, 6)
}

func TestHasBuilding(t *testing.T) {
	client, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/buildings/my-building/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"hasBuilding": true}`))
	})
	buildings := service.NewBuildings(client)

	has, err := buildings.HasBuilding(context.Background())
	require.NoError(t, err)
	require.True(t, has)
}
