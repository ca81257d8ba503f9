// Package kernel provides domain primitives shared by every aggregate:
//   - UUID: identifier value object that rejects the nil UUID
//   - Money: integer amount in minor currency units
//   - Clock: time source injected into handlers
package kernel
