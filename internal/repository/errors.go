package repository

import "errors"

// ErrNotFound стандартная ошибка для случаев, когда запись не найдена.
var ErrNotFound = errors.New("record not found")

// ErrInvalidData ошибка для некорректных входных данных.
var ErrInvalidData = errors.New("invalid data")
