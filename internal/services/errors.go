package services

import (
	"errors"
	"fmt"
)

// Таксономия ошибок сервисного слоя. Контроллеры маппят типы на HTTP коды,
// не разбирая текст сообщений.

// ValidationError описывает первое нарушенное ограничение входных данных
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ошибка валидации поля %q: %s", e.Field, e.Detail)
}

// NotFoundError запрошенная сущность отсутствует
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s не найден", e.Entity, e.Key)
}

// ReferenceError обязательная связанная сущность не существует
// (для вызывающего это ошибка класса валидации)
type ReferenceError struct {
	Entity string
	Key    string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("связанная сущность %s %s не существует", e.Entity, e.Key)
}

// MissingFieldError запись не содержит поля, обязательного для операции
// (экспорт требует description, хотя в модели поле опционально)
type MissingFieldError struct {
	Field string
	Key   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("запись %s не содержит обязательного для операции поля %q", e.Key, e.Field)
}

// DependencyError сбой внешнего шлюза (Cloudinary)
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("сбой внешнего сервиса (%s): %v", e.Op, e.Err)
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// ErrAuthentication единый отказ авторизации: причина не раскрывается вызывающему
var ErrAuthentication = errors.New("доступ запрещен")
