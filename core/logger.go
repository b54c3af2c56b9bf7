package core

type (
	// Logger logs messages and reports errors.
	// args may hold errors, maps of extra data and a Person.
	Logger interface {
		Debug(msg string, args ...interface{})
		Info(msg string, args ...interface{})
		Warn(msg string, args ...interface{})
		Error(msg string, args ...interface{})
		Fatal(msg string, args ...interface{})
	}

	// Person identifies the authenticated member a log entry relates to.
	Person struct {
		ID       string
		Username string
		Email    string
	}
)
