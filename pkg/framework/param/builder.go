package param

// Builder provides a fluent API for creating parameters
type Builder struct {
	param *Parameter
}

// New creates a new parameter builder with a 0-1 range.
func New(symbol, name string) *Builder {
	return &Builder{
		param: &Parameter{
			Symbol: symbol,
			Name:   name,
			Min:    0,
			Max:    1,
		},
	}
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default value (plain, not normalized).
func (b *Builder) Default(value float64) *Builder {
	b.param.Default = value
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete steps
func (b *Builder) Steps(count int32) *Builder {
	b.param.Steps = count
	return b
}

// Toggle makes a two-state parameter.
func (b *Builder) Toggle() *Builder {
	b.param.Min = 0
	b.param.Max = 1
	b.param.Steps = 1
	return b
}

// Clamped makes out-of-range writes clamp instead of fail.
func (b *Builder) Clamped() *Builder {
	b.param.Flags |= IsClamped
	return b
}

// Trigger marks the parameter as an edge counter.
func (b *Builder) Trigger() *Builder {
	b.param.Flags |= IsTrigger
	return b
}

// ReadOnly marks the parameter as read-only
func (b *Builder) ReadOnly() *Builder {
	b.param.Flags |= IsReadOnly
	return b
}

// Formatter sets custom value formatting
func (b *Builder) Formatter(format func(float64) string) *Builder {
	b.param.formatFunc = format
	return b
}

// Build returns the configured parameter holding its default value.
func (b *Builder) Build() *Parameter {
	if b.param.Default < b.param.Min || b.param.Default > b.param.Max {
		b.param.Default = b.param.Clamp(b.param.Default)
	}
	b.param.Reset()
	return b.param
}
