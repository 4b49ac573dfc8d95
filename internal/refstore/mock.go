package refstore

import "github.com/stretchr/testify/mock"

type MockStore struct {
	mock.Mock
}

func (m *MockStore) IdentityAt(row int) int64 {
	args := m.Called(row)
	return args.Get(0).(int64)
}

func (m *MockStore) EmbeddingAt(row int) []float32 {
	args := m.Called(row)
	return args.Get(0).([]float32)
}

func (m *MockStore) MetadataFor(identityId int64) (IdentityRecord, error) {
	args := m.Called(identityId)
	return args.Get(0).(IdentityRecord), args.Error(1)
}

func (m *MockStore) Count() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockStore) Dim() int {
	args := m.Called()
	return args.Int(0)
}
