package transport

import "context"

// Fake is an in-memory Client for tests: each On* field, when set, is
// invoked directly; unset fields return an answer carrying only result
// code 2001 (DIAMETER_SUCCESS).
type Fake struct {
	OnMultimediaAuth    func(ctx context.Context, req MARRequest) (*MARAnswer, error)
	OnUserAuth          func(ctx context.Context, req UARRequest) (*UARAnswer, error)
	OnLocationInfo      func(ctx context.Context, req LIRRequest) (*LIRAnswer, error)
	OnServerAssignment  func(ctx context.Context, req SARRequest) (*SARAnswer, error)
}

func (f *Fake) MultimediaAuth(ctx context.Context, req MARRequest) (*MARAnswer, error) {
	if f.OnMultimediaAuth != nil {
		return f.OnMultimediaAuth(ctx, req)
	}
	return &MARAnswer{ResultCode: 2001}, nil
}

func (f *Fake) UserAuth(ctx context.Context, req UARRequest) (*UARAnswer, error) {
	if f.OnUserAuth != nil {
		return f.OnUserAuth(ctx, req)
	}
	return &UARAnswer{ResultCode: 2001}, nil
}

func (f *Fake) LocationInfo(ctx context.Context, req LIRRequest) (*LIRAnswer, error) {
	if f.OnLocationInfo != nil {
		return f.OnLocationInfo(ctx, req)
	}
	return &LIRAnswer{ResultCode: 2001}, nil
}

func (f *Fake) ServerAssignment(ctx context.Context, req SARRequest) (*SARAnswer, error) {
	if f.OnServerAssignment != nil {
		return f.OnServerAssignment(ctx, req)
	}
	return &SARAnswer{ResultCode: 2001}, nil
}
