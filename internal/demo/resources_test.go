package demo_test

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"entrance-client/internal/model"
	"entrance-client/internal/service"
	"entrance-client/pkg/api"
)

func TestPollVoteOncePerUser(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	login(t, client, "resident@test.com")
	polls := service.NewPolls(client)

	vote, err := polls.Vote(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, vote.OptionID)

	// Results include the caller's own vote
	poll, err := polls.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, poll.TotalVotes)
	require.NotNil(t, poll.UserVote)
	require.Equal(t, 1, poll.UserVote.OptionID)
	require.Equal(t, 1, poll.Options[0].VoteCount)
	require.Zero(t, poll.Options[1].VoteCount)

	// A second vote is rejected
	_, err = polls.Vote(ctx, 1, 2)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestPollCreateCloseAndVoteAfterClose(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	login(t, client, "admin@test.com")
	polls := service.NewPolls(client)

	poll, err := polls.Create(ctx, service.CreatePollRequest{
		Title:       "Боядисване на входа",
		Description: "Кой цвят предпочитате?",
		StartAt:     "2024-12-01T00:00:00",
		EndAt:       "2024-12-31T23:59:59",
		Options:     []string{"Бял", "Сив"},
	})
	require.NoError(t, err)
	require.True(t, poll.IsActive)
	require.Len(t, poll.Options, 2)

	require.NoError(t, polls.Close(ctx, poll.ID))

	// A closed poll takes no further votes
	_, err = polls.Vote(ctx, poll.ID, poll.Options[0].ID)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestPollCreateRequiresManagerAndTwoOptions(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	login(t, client, "resident@test.com")
	polls := service.NewPolls(client)

	_, err := polls.Create(ctx, service.CreatePollRequest{
		Title:   "Нередовна анкета",
		Options: []string{"Да", "Не"},
	})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)

	// A single option never leaves the client
	managerClient := api.NewClient(client.BaseURL, 5*time.Second, zap.NewNop())
	login(t, managerClient, "admin@test.com")

	_, err = service.NewPolls(managerClient).Create(ctx, service.CreatePollRequest{
		Title:   "Без опции",
		Options: []string{"Само една"},
	})
	require.ErrorContains(t, err, "two options")
}

func TestDocumentUploadListDelete(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	login(t, client, "admin@test.com")
	documents := service.NewDocuments(client)

	uploaded, err := documents.Upload(ctx, service.DocumentUpload{
		Title:    "Бюджет 2025",
		FileName: "budget-2025.pdf",
	})
	require.NoError(t, err)
	require.NotZero(t, uploaded.ID)

	// The seeded archive plus the new document
	list, err := documents.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, documents.Delete(ctx, uploaded.ID))

	list, err = documents.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDocumentUploadRequiresManager(t *testing.T) {
	client := newBackend(t)
	login(t, client, "resident@test.com")

	_, err := service.NewDocuments(client).Upload(context.Background(), service.DocumentUpload{
		Title:    "Нередовен документ",
		FileName: "x.pdf",
	})
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestUserRoleChange(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	_, resident := login(t, client, "resident@test.com")

	managerClient := api.NewClient(client.BaseURL, 5*time.Second, zap.NewNop())
	login(t, managerClient, "admin@test.com")
	users := service.NewUsers(managerClient)

	promoted, err := users.ChangeRole(ctx, resident.ID, model.RoleBuildingManager)
	require.NoError(t, err)
	require.Equal(t, model.RoleBuildingManager, promoted.Role)

	managers, err := users.List(ctx, model.RoleBuildingManager)
	require.NoError(t, err)
	require.Len(t, managers, 2)

	_, err = users.ChangeRole(ctx, resident.ID, "SUPERUSER")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestUserListRequiresManager(t *testing.T) {
	client := newBackend(t)
	login(t, client, "resident@test.com")

	_, err := service.NewUsers(client).List(context.Background(), "")
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestResidentAdministration(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	login(t, client, "admin@test.com")
	residents := service.NewResidents(client)

	created, err := residents.Create(ctx, service.CreateResidentRequest{
		FullName:   "Георги Димитров",
		Email:      "georgi@test.com",
		UnitNumber: "15",
	})
	require.NoError(t, err)
	require.Equal(t, model.RoleResident, created.Role)

	list, err := residents.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	updated, err := residents.Update(ctx, created.ID, service.CreateResidentRequest{
		FullName: "Георги Д. Димитров",
	})
	require.NoError(t, err)
	require.Equal(t, "Георги Д. Димитров", updated.FullName)

	require.NoError(t, residents.Delete(ctx, created.ID))

	_, err = residents.Get(ctx, created.ID)
	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestConcurrentProfileReadsAndUpdates(t *testing.T) {
	ctx := context.Background()
	client := newBackend(t)
	login(t, client, "resident@test.com")
	users := service.NewUsers(client)

	const workers = 16
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				name := fmt.Sprintf("Иван Петров %d", i)
				_, err := users.UpdateProfile(ctx, service.UpdateProfileRequest{FullName: &name})
				errs <- err
			} else {
				_, err := users.MyProfile(ctx)
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
