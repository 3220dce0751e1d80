// Command bloodbank runs the blood bank API and its maintenance tasks.
//
//	bloodbank serve                       # start the HTTP server
//	bloodbank migrate                     # apply pending migrations
//	bloodbank migrate:rollback            # undo the last batch
//	bloodbank migrate:status
//	bloodbank seed                        # blood groups and bootstrap admin
//	bloodbank route:list
//	bloodbank user:role <email> <role>    # grant staff or admin
//
// Configuration comes from config/app.json, .env and the environment.
package main
