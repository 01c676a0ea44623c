package black

// Delta returns the first derivative of Price with respect to spot.
func Delta(in Inputs) ([]float64, error) {
	return DeltaWith(in, SpotConvention)
}

// Gamma returns the second derivative of Price with respect to spot.
func Gamma(in Inputs) ([]float64, error) {
	return GammaWith(in, SpotConvention)
}

// DeltaWith is Delta under the given discounting convention.
func DeltaWith(in Inputs, conv Convention) ([]float64, error) {
	b, err := prepare(in)
	if err != nil {
		return nil, err
	}
	return project(b.precision, b.evaluate(conv, true), first), nil
}

// GammaWith is Gamma under the given discounting convention.
func GammaWith(in Inputs, conv Convention) ([]float64, error) {
	b, err := prepare(in)
	if err != nil {
		return nil, err
	}
	return project(b.precision, b.evaluate(conv, true), second), nil
}

// Greeks returns price, delta and gamma from a single evaluation.
func Greeks(in Inputs) (Result, error) {
	return GreeksWith(in, SpotConvention)
}

// GreeksWith is Greeks under the given discounting convention.
func GreeksWith(in Inputs, conv Convention) (Result, error) {
	b, err := prepare(in)
	if err != nil {
		return Result{}, err
	}
	ds := b.evaluate(conv, true)
	return Result{
		Price: project(b.precision, ds, value),
		Delta: project(b.precision, ds, first),
		Gamma: project(b.precision, ds, second),
	}, nil
}
