package vm

import "context"

func (vm *VirtualMachine) notifyCall(ctx context.Context, fr *Frame, argc int) error {
	if fr.hidden || vm.observer == nil || !vm.observerCfg.ObserveCalls {
		return nil
	}
	event := CallEvent{
		VM:           vm,
		FunctionName: fr.name,
		ArgCount:     argc,
		Source:       fr.source,
		Line:         fr.line,
		Depth:        vm.Depth(),
	}
	return halt(vm.observer.OnCall(ctx, event))
}

// notifyReturn runs while the frame is still on the stack, including when
// the frame unwinds because of an error.
func (vm *VirtualMachine) notifyReturn(ctx context.Context, fr *Frame, err error) error {
	if fr.hidden || vm.observer == nil || !vm.observerCfg.ObserveReturns {
		return nil
	}
	event := ReturnEvent{
		VM:           vm,
		FunctionName: fr.name,
		Source:       fr.source,
		Line:         fr.line,
		Depth:        vm.Depth(),
		Err:          unwrapHalt(err),
	}
	return halt(vm.observer.OnReturn(ctx, event))
}
