package registrar

import (
	"context"

	"command-registrar/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

type mockPublisher struct {
	bulkFunc   func(ctx context.Context, target domain.Target, cmds []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error)
	createFunc func(ctx context.Context, target domain.Target, cmd *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error)
	listFunc   func(ctx context.Context, target domain.Target) ([]*discordgo.ApplicationCommand, error)
	deleteFunc func(ctx context.Context, target domain.Target, commandID string) error

	bulkCalls   int
	createCalls int
}

func (m *mockPublisher) BulkOverwrite(ctx context.Context, target domain.Target, cmds []*discordgo.ApplicationCommand) ([]*discordgo.ApplicationCommand, error) {
	m.bulkCalls++
	if m.bulkFunc != nil {
		return m.bulkFunc(ctx, target, cmds)
	}
	return cmds, nil
}

func (m *mockPublisher) Create(ctx context.Context, target domain.Target, cmd *discordgo.ApplicationCommand) (*discordgo.ApplicationCommand, error) {
	m.createCalls++
	if m.createFunc != nil {
		return m.createFunc(ctx, target, cmd)
	}
	return &discordgo.ApplicationCommand{ID: "id-" + cmd.Name, Name: cmd.Name}, nil
}

func (m *mockPublisher) List(ctx context.Context, target domain.Target) ([]*discordgo.ApplicationCommand, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, target)
	}
	return nil, nil
}

func (m *mockPublisher) Delete(ctx context.Context, target domain.Target, commandID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, target, commandID)
	}
	return nil
}

type mockHistory struct {
	lastFunc    func(ctx context.Context, target domain.Target) (*domain.Deployment, error)
	recordFunc  func(ctx context.Context, d domain.Deployment) error
	historyFunc func(ctx context.Context, target domain.Target, limit int) ([]domain.Deployment, error)

	recorded []domain.Deployment
}

func (m *mockHistory) LastDeployment(ctx context.Context, target domain.Target) (*domain.Deployment, error) {
	if m.lastFunc != nil {
		return m.lastFunc(ctx, target)
	}
	if len(m.recorded) == 0 {
		return nil, nil
	}
	last := m.recorded[len(m.recorded)-1]
	return &last, nil
}

func (m *mockHistory) RecordDeployment(ctx context.Context, d domain.Deployment) error {
	m.recorded = append(m.recorded, d)
	if m.recordFunc != nil {
		return m.recordFunc(ctx, d)
	}
	return nil
}

func (m *mockHistory) History(ctx context.Context, target domain.Target, limit int) ([]domain.Deployment, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, target, limit)
	}
	return nil, nil
}

func (m *mockHistory) Close() {}
