package viewer

// started is closed once Show is accepting connections.
func (s *Server) started() <-chan struct{} {
	return s.readyCh
}

// address returns the viewer URL once started is closed.
func (s *Server) address() string {
	u, _ := s.url.Load().(string)
	return u
}
