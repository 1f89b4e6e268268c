package game

import (
	"context"

	"github.com/stretchr/testify/mock"

	"shiritori/domain"
)

// --- NetworkSession ---

type MockNetworkSession struct {
	mock.Mock
}

func (m *MockNetworkSession) Close(errCode string) {
	m.Called(errCode)
}

func (m *MockNetworkSession) Write(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockNetworkSession) Read() ([]byte, error) {
	args := m.Called()
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockNetworkSession) Ping() error {
	args := m.Called()
	return args.Error(0)
}

// --- Player ---

type MockPlayer struct {
	mock.Mock
}

func (m *MockPlayer) Username() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockPlayer) Send(data []byte) error {
	args := m.Called(data)
	return args.Error(0)
}

func (m *MockPlayer) SetRoom(r Room) {
	m.Called(r)
}

func (m *MockPlayer) CancelAndRelease() {
	m.Called()
}

// --- Room ---

type MockRoom struct {
	mock.Mock
}

func (m *MockRoom) RequestJoin(req roomJoinRequest) {
	m.Called(req)
}

func (m *MockRoom) Send(ctx context.Context, env clientEnvelope) {
	m.Called(ctx, env)
}

func (m *MockRoom) RemoveMe(ctx context.Context, p Player) {
	m.Called(ctx, p)
}

func (m *MockRoom) SetParentLobby(l Lobby) {
	m.Called(l)
}

func (m *MockRoom) MemberCount() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockRoom) GameLoop() {
	m.Called()
}

func (m *MockRoom) CloseAndRelease() {
	m.Called()
}

// --- Lobby ---

type MockLobby struct {
	mock.Mock
}

func (m *MockLobby) Join(ctx context.Context, roomCode string, p Player) error {
	args := m.Called(ctx, roomCode, p)
	return args.Error(0)
}

func (m *MockLobby) RemoveRoom(roomCode string) {
	m.Called(roomCode)
}

// --- Oracle ---

type MockOracle struct {
	mock.Mock
}

func (m *MockOracle) Judge(ctx context.Context, question string) bool {
	args := m.Called(ctx, question)
	return args.Bool(0)
}

// --- RuleChecker ---

type MockRuleChecker struct {
	mock.Mock
}

func (m *MockRuleChecker) CheckRule(ctx context.Context, ruleID, word string) (bool, error) {
	args := m.Called(ctx, ruleID, word)
	return args.Bool(0), args.Error(1)
}

// --- MatchRecorder ---

type MockMatchRecorder struct {
	mock.Mock
}

func (m *MockMatchRecorder) RecordMatch(ctx context.Context, result domain.MatchResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

// --- MatchArchive ---

type MockMatchArchive struct {
	mock.Mock
}

func (m *MockMatchArchive) RecentMatches(ctx context.Context, limit int) ([]domain.MatchResult, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MatchResult), args.Error(1)
}
