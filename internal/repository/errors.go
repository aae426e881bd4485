package repository

import "gorm.io/gorm"

// ErrRecordNotFound se comparte con gorm para que los llamadores usen errors.Is
// sin importar la implementación.
var ErrRecordNotFound = gorm.ErrRecordNotFound
