//	@title			Course Log API
//	@version		1.0
//	@description	Activity log report of a course: filtered log entries, filter menus and course navigation
//	@termsOfService	http://swagger.io/terms/

//	@contact.name	API Support
//	@contact.url	https://github.com/jimmy-wims/course-log

//	@license.name	MIT
//	@license.url	https://github.com/jimmy-wims/course-log/blob/main/LICENSE

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and a viewer token issued by the host platform.

//	@securityDefinitions.apikey	SessionAuth
//	@in							cookie
//	@name						course_log_session
//	@description				Session cookie opened by /session/handoff

package main

import (
	"fmt"
	"os"

	_ "time/tzdata" // report time zones without system zoneinfo

	_ "github.com/jimmy-wims/course-log/api" // swagger docs
	"github.com/jimmy-wims/course-log/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
