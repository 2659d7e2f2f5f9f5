package models

// Conversion formulas are fixed: F = C*9/5 + 32, K = C + 273.15.

func CelsiusToFahrenheit(c float64) float64 { return c*9/5 + 32 }

func CelsiusToKelvin(c float64) float64 { return c + 273.15 }
