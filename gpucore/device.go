package gpucore

// Submission is one queue submission: the command buffer waits on Wait at
// the color-attachment stage, then signals Signal and Fence.
type Submission struct {
	CommandBuffer CommandBuffer
	Wait          Semaphore
	Signal        Semaphore
	Fence         Fence
}

// Presentation queues a swapchain image for display after Wait signals.
type Presentation struct {
	Swapchain  Swapchain
	ImageIndex uint32
	Wait       Semaphore
}

// Device is the GPU device the presentation layer drives.
//
// Methods that talk to the GPU return the root package sentinels:
// AcquireNextImage and Present return ErrSwapchainOutOfDate or
// ErrSuboptimal when the swapchain must be recreated, and any method may
// return ErrDeviceLost. For AcquireNextImage, ErrSuboptimal is returned
// together with a valid image index and a signaled semaphore.
//
// Device is used from a single goroutine.
type Device interface {
	// Capabilities reports device features.
	Capabilities() Capabilities

	// WaitIdle blocks until all submitted work has completed.
	WaitIdle() error

	CreateSemaphore() (Semaphore, error)
	DestroySemaphore(Semaphore)

	// CreateFence creates a fence, optionally in the signaled state.
	CreateFence(signaled bool) (Fence, error)
	DestroyFence(Fence)

	// WaitFence blocks until the fence is signaled. There is no timeout.
	WaitFence(Fence) error
	ResetFence(Fence) error

	AllocateCommandBuffer() (CommandBuffer, error)
	FreeCommandBuffer(CommandBuffer)

	// SurfaceCapabilities queries the window surface.
	SurfaceCapabilities() (SurfaceCapabilities, error)

	// CreateSwapchain creates a swapchain for the window surface. The old
	// swapchain, if valid, is passed to the driver for resource reuse but
	// remains owned by the caller.
	CreateSwapchain(desc SwapchainDesc, old Swapchain) (Swapchain, error)
	DestroySwapchain(Swapchain)

	// SwapchainImages returns the presentable images in index order. The
	// images are owned by the swapchain.
	SwapchainImages(Swapchain) ([]Image, error)

	CreateImageView(img Image, desc SwapchainDesc) (ImageView, error)
	DestroyImageView(ImageView)

	CreateFramebuffer(view ImageView, extent Extent) (Framebuffer, error)
	DestroyFramebuffer(Framebuffer)

	// AcquireNextImage requests the next presentable image; signal is
	// signaled when the image is ready for rendering.
	AcquireNextImage(sc Swapchain, signal Semaphore) (uint32, error)

	// Submit submits recorded commands to the graphics queue.
	Submit(Submission) error

	// Present queues an image for presentation.
	Present(Presentation) error
}
