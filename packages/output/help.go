package output

// HelpGeneral is printed for "httpc help"
const HelpGeneral = `httpc is a curl-like application but supports HTTP protocol only.

Usage:
    httpc command [arguments]

The commands are:
    get     executes a HTTP GET request and prints the response.
    post    executes a HTTP POST request and prints the response.
    help    prints this screen.

Use "httpc help [command]" for more information about a command.`

// HelpGet is printed for "httpc help get"
const HelpGet = `usage: httpc get [-v] [-h key:value] URL

Get executes a HTTP GET request for a given URL.
    -v              Prints the detail of the response such as protocol, status, and headers.
    -h key:value    Associates headers to HTTP Request with the format 'key:value'.`

// HelpPost is printed for "httpc help post"
const HelpPost = `usage: httpc post [-v] [-h key:value] [-d inline-data] [-f file] URL

Post executes a HTTP POST request for a given URL with inline data or from file.
    -v              Prints the detail of the response such as protocol, status, and headers.
    -h key:value    Associates headers to HTTP Request with the format 'key:value'.
    -d string       Associates an inline data to the body HTTP POST request.
    -f file         Associates the content of a file to the body HTTP POST request.

Either [-d] or [-f] can be used but not both.`

// InvalidCommand is the single diagnostic for a rejected line
const InvalidCommand = `Invalid command. Type "httpc help" for usage.`

// Farewell is printed when input ends
const Farewell = "...exit...\r\nHave a good day!"

// HelpText returns the block for topic: "get", "post" or anything else for
// the general usage
func HelpText(topic string) string {
	switch topic {
	case "get":
		return HelpGet
	case "post":
		return HelpPost
	default:
		return HelpGeneral
	}
}
