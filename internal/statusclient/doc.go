// Package statusclient fetches the GPIO status payload from a gpiostatus
// server over HTTP.
//
// A fetch is a single POST to /api/plugin/gpiostatus with a JSON body naming
// the gpio_status command. Failures come back as *StatusError, classified
// into network, timeout, connection refused, DNS, HTTP, auth and parse
// errors. There are no retries: a failed fetch ends that refresh.
//
//	client := statusclient.NewClient("http://raspberrypi.local:5000")
//	resp, err := client.Fetch(ctx, pinout.NewRequest(true))
//	if err != nil {
//	    fmt.Println(statusclient.GetShortErrorMessage(err))
//	}
package statusclient
