package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pagina della chat web, incorporata nel binario
const chatHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8">
  <title>AI Bot</title>
  <style>
    body{font-family:Arial;max-width:720px;margin:20px auto;}
    #chat{border:1px solid #ddd;padding:10px;height:400px;overflow:auto;background:#f9f9f9}
    .me{color:#111;text-align:right}
    .bot{color:#0b78e3;text-align:left}
    .bubble{display:inline-block;padding:8px 12px;border-radius:12px;margin:6px 0;max-width:80%}
    .me .bubble{background:#cfe9ff}
    .bot .bubble{background:#e8f0ff}
    #controls{margin-top:10px}
  </style>
</head>
<body>
  <h2>AI Bot (Web)</h2>
  <div id="chat"></div>
  <div id="controls">
    <input id="msg" placeholder="Ask anything..." style="width:70%;padding:8px;">
    <button onclick="send()">Send</button>
    <input type="file" id="fileinput">
    <button onclick="uploadFile()">Upload Image</button>
  </div>
<script>
async function send(){
  let t=document.getElementById('msg').value.trim();
  if(!t) return;
  appendMessage('me', t);
  document.getElementById('msg').value='';
  const resp=await fetch('/webchat',{method:'POST',headers:{'Content-Type':'application/json'},body:JSON.stringify({text:t})});
  const data=await resp.json();
  appendMessage('bot', data.reply);
}
function appendMessage(who, text){
  let c=document.getElementById('chat');
  let div=document.createElement('div'); div.className=who;
  let span=document.createElement('span'); span.className='bubble'; span.innerText=text;
  div.appendChild(span); c.appendChild(div); c.scrollTop=c.scrollHeight;
}
async function uploadFile(){
  const fi=document.getElementById('fileinput');
  if(!fi.files.length) return alert('Select a file');
  let fd=new FormData(); fd.append('file', fi.files[0]);
  let res=await fetch('/upload', {method:'POST', body:fd});
  let j=await res.json();
  if(j.ok){
    appendMessage('me', 'Uploaded image: '+j.filename);
    appendMessage('bot', 'To ask about this image, type: img:'+j.filename+' Your question');
  } else {
    appendMessage('bot','Upload failed');
  }
}
</script>
</body>
</html>
`

// ServeIndex serve l'interfaccia della chat web
func ServeIndex(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(chatHTML))
}

// Middleware CORS per l'interfaccia web
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
