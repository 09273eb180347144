package repository

import (
	"context"
	"sync"
)

// InMemoryStateStore реализация StateStore в памяти (для тестов и dev-режима).
type InMemoryStateStore struct {
	values map[string]string
	mutex  sync.RWMutex

	// FailWrites заставляет Set возвращать ошибку (симуляция отказа диска в тестах).
	FailWrites error
}

// NewInMemoryStateStore создает новое пустое хранилище в памяти.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{values: make(map[string]string)}
}

// Get возвращает значение ключа или ErrNotFound.
func (s *InMemoryStateStore) Get(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.values[key]
	if !exists {
		return "", ErrNotFound
	}
	return value, nil
}

// Set сохраняет значение ключа.
func (s *InMemoryStateStore) Set(ctx context.Context, key, value string) error {
	if s.FailWrites != nil {
		return s.FailWrites
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.values[key] = value
	return nil
}

// Delete удаляет ключ.
func (s *InMemoryStateStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.values, key)
	return nil
}

// Close ничего не делает для хранилища в памяти.
func (s *InMemoryStateStore) Close() error {
	return nil
}
